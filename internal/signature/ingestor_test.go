package signature

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	saveFn func(ctx context.Context, path string, data []byte) (string, error)
}

func (f *fakeStore) Save(ctx context.Context, path string, data []byte) (string, error) {
	return f.saveFn(ctx, path, data)
}

func TestIngest_DataURL(t *testing.T) {
	var savedPath string
	var savedData []byte
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		savedPath = path
		savedData = data
		return "/storage/" + path, nil
	}}
	ing := NewIngestor(store)

	payload := []byte("signature strokes")
	raw := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	url := ing.Ingest(context.Background(), raw, "signatures/e1_2026-08-31_in")
	assert.NotNil(t, url)
	assert.True(t, strings.HasPrefix(*url, "/storage/signatures/e1_2026-08-31_in_"))
	assert.True(t, strings.HasSuffix(savedPath, ".png"))
	assert.Equal(t, payload, savedData)
}

func TestIngest_DataURLJpeg(t *testing.T) {
	var savedPath string
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		savedPath = path
		return "/storage/" + path, nil
	}}
	ing := NewIngestor(store)

	raw := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("x"))
	url := ing.Ingest(context.Background(), raw, "signatures/s")
	assert.NotNil(t, url)
	assert.True(t, strings.HasSuffix(savedPath, ".jpg"))
}

func TestIngest_BareBase64(t *testing.T) {
	stored := false
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		stored = true
		return "/storage/" + path, nil
	}}
	ing := NewIngestor(store)

	raw := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("signature bytes ", 4)))
	url := ing.Ingest(context.Background(), raw, "signatures/s")
	assert.NotNil(t, url)
	assert.True(t, stored)
}

func TestIngest_URLPassThrough(t *testing.T) {
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		t.Fatal("store must not be called for URLs")
		return "", nil
	}}
	ing := NewIngestor(store)

	raw := "https://cdn.example.com/sig.png"
	url := ing.Ingest(context.Background(), raw, "p")
	assert.NotNil(t, url)
	assert.Equal(t, raw, *url)
}

func TestIngest_StoragePathNormalized(t *testing.T) {
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		t.Fatal("store must not be called for storage paths")
		return "", nil
	}}
	ing := NewIngestor(store)

	url := ing.Ingest(context.Background(), "storage/signatures/a.png", "p")
	assert.NotNil(t, url)
	assert.Equal(t, "/storage/signatures/a.png", *url)

	url = ing.Ingest(context.Background(), "/storage/signatures/b.png", "p")
	assert.NotNil(t, url)
	assert.Equal(t, "/storage/signatures/b.png", *url)
}

func TestIngest_Unusable(t *testing.T) {
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		return "/storage/" + path, nil
	}}
	ing := NewIngestor(store)

	assert.Nil(t, ing.Ingest(context.Background(), "", "p"))
	assert.Nil(t, ing.Ingest(context.Background(), "short", "p"))
	assert.Nil(t, ing.Ingest(context.Background(), "data:image/png;base64", "p"))
	assert.Nil(t, ing.Ingest(context.Background(), "data:image/png;base64,!!!not-base64!!!", "p"))
}

func TestIngest_StoreFailureYieldsNothing(t *testing.T) {
	store := &fakeStore{saveFn: func(ctx context.Context, path string, data []byte) (string, error) {
		return "", errors.New("disk full")
	}}
	ing := NewIngestor(store)

	raw := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("x"))
	assert.Nil(t, ing.Ingest(context.Background(), raw, "p"))
}
