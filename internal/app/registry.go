package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/absence"
	"github.com/EternelCodeur/punch-smartly-backend/internal/attendance"
	"github.com/EternelCodeur/punch-smartly-backend/internal/auth"
	"github.com/EternelCodeur/punch-smartly-backend/internal/departure"
	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
	"github.com/EternelCodeur/punch-smartly-backend/internal/entreprise"
	"github.com/EternelCodeur/punch-smartly-backend/internal/messaging/kafka"
	"github.com/EternelCodeur/punch-smartly-backend/internal/signature"
	"github.com/EternelCodeur/punch-smartly-backend/internal/tenant"
	"github.com/EternelCodeur/punch-smartly-backend/internal/user"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	tenantRepo := tenant.NewRepository(gormDB)
	entrepriseRepo := entreprise.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	employeRepo := employe.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	absenceRepo := absence.NewRepository(gormDB)
	departureRepo := departure.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Signature storage ---
	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "storage/public"
	}
	storageBaseURL := os.Getenv("STORAGE_BASE_URL")
	if storageBaseURL == "" {
		storageBaseURL = "/storage"
	}
	ingestor := signature.NewIngestor(signature.NewDiskStore(storageDir, storageBaseURL))

	// --- Services ---
	authService := auth.NewService(authRepo)
	tenantService := tenant.NewService(gormDB, tenantRepo, userRepo, outboxRepo)
	entrepriseService := entreprise.NewService(gormDB, entrepriseRepo)
	userService := user.NewService(gormDB, userRepo)
	employeService := employe.NewService(gormDB, employeRepo)
	attendanceService := attendance.NewService(gormDB, attendanceRepo, employeRepo, absenceRepo, outboxRepo, ingestor)
	absenceService := absence.NewService(gormDB, absenceRepo, employeRepo)
	departureService := departure.NewService(gormDB, departureRepo, employeRepo, outboxRepo, ingestor)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	tenantHandler := tenant.NewHandler(tenantService)
	entrepriseHandler := entreprise.NewHandler(entrepriseService)
	userHandler := user.NewHandler(userService)
	employeHandler := employe.NewHandler(employeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	absenceHandler := absence.NewHandler(absenceService)
	departureHandler := departure.NewHandler(departureService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		tenant.RegisterRoutes(api, tenantHandler)
		entreprise.RegisterRoutes(api, entrepriseHandler)
		user.RegisterRoutes(api, userHandler)
		employe.RegisterRoutes(api, employeHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		absence.RegisterRoutes(api, absenceHandler)
		departure.RegisterRoutes(api, departureHandler, rdb)
	}

	return nil
}
