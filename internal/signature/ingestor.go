// Package signature turns raw signature payloads (data-URLs, bare base64,
// URLs or storage paths) into stored artifact references. Ingestion is best
// effort: a payload that cannot be decoded yields no artifact, never an error,
// so the surrounding check-in/check-out/return transition always commits.
package signature

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists decoded signature bytes and returns their public URL.
//
//go:generate mockgen -source=ingestor.go -destination=mock/ingestor_mock.go -package=mock
type Store interface {
	Save(ctx context.Context, path string, data []byte) (string, error)
}

type Ingestor struct {
	store  Store
	logger *zap.Logger
}

func NewIngestor(store Store, logger ...*zap.Logger) *Ingestor {
	l := zap.L().Named("signature.ingestor")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("signature.ingestor")
	}
	return &Ingestor{store: store, logger: l}
}

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/=_-]+$`)

// Ingest classifies raw and returns the public URL of the stored artifact,
// or nil when no artifact could be derived. prefix namespaces the generated
// filename (e.g. "signatures/<employe>_<date>_in").
func (i *Ingestor) Ingest(ctx context.Context, raw, prefix string) *string {
	if raw == "" {
		return nil
	}

	// 1. Data-URL with an embedded base64 image.
	if strings.HasPrefix(raw, "data:image/") {
		meta, b64, found := strings.Cut(raw, ",")
		if !found {
			return nil
		}
		ext := ".png"
		if strings.Contains(meta, "image/jpeg") || strings.Contains(meta, "image/jpg") {
			ext = ".jpg"
		}
		return i.decodeAndStore(ctx, b64, prefix, ext)
	}

	// 2. Plausible bare base64 payload.
	compact := strings.NewReplacer("\r", "", "\n", "", " ", "").Replace(raw)
	if len(raw) > 40 && base64Alphabet.MatchString(compact) {
		return i.decodeAndStore(ctx, compact, prefix, ".png")
	}

	// 3. Absolute URL: pass through unchanged.
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return &raw
	}

	// 4. Relative storage path: normalize to the public URL form.
	switch {
	case strings.HasPrefix(raw, "storage/"):
		u := "/" + raw
		return &u
	case strings.HasPrefix(raw, "/storage/"), strings.HasPrefix(raw, "/uploads/"), strings.HasPrefix(raw, "uploads/"):
		return &raw
	}

	return nil
}

func (i *Ingestor) decodeAndStore(ctx context.Context, b64, prefix, ext string) *string {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		i.logger.Warn("signature decode failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}

	path := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	url, err := i.store.Save(ctx, path, data)
	if err != nil {
		i.logger.Warn("signature store failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	return &url
}
