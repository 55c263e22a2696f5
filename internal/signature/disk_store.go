package signature

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes artifacts under a local root and serves them at baseURL,
// mirroring a public storage disk (root "storage/app/public", baseURL
// "/storage").
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *DiskStore) Save(_ context.Context, path string, data []byte) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + path, nil
}
