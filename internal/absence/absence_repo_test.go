package absence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	employeID := uuid.New()

	t.Run("inserts a missing row with on conflict do nothing", func(t *testing.T) {
		gdb, mock := newGormMock(t)
		repo := NewRepository(gdb)

		mock.ExpectQuery(`INSERT INTO "absences" .+ ON CONFLICT \("employe_id","date"\) DO NOTHING RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

		a, created, err := repo.GetOrCreate(ctx, employeID, "2026-03-06", "", nil)
		assert.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, employeID, a.EmployeID)
		assert.Equal(t, DefaultStatus, a.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-reads an existing row after a silent conflict", func(t *testing.T) {
		gdb, mock := newGormMock(t)
		repo := NewRepository(gdb)

		existingID := uuid.New()
		day := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

		// Zero returned rows means the unique key already had a holder.
		mock.ExpectQuery(`INSERT INTO "absences" .+ ON CONFLICT \("employe_id","date"\) DO NOTHING RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT \* FROM "absences" WHERE employe_id = \$1 AND date = \$2`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "employe_id", "date", "status", "reason"}).
				AddRow(existingID.String(), employeID.String(), day, "mission", nil))

		a, created, err := repo.GetOrCreate(ctx, employeID, "2026-03-06", "conge", nil)
		assert.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existingID, a.ID)
		assert.Equal(t, "mission", a.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		gdb, _ := newGormMock(t)
		repo := NewRepository(gdb)

		_, _, err := repo.GetOrCreate(ctx, employeID, "06/03/2026", "", nil)
		assert.Error(t, err)
	})
}
