package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"storefront/internal/apperr"
	"storefront/internal/logger"
	"storefront/internal/model"

	"go.opentelemetry.io/otel"
)

type FileRepository struct {
	path string
}

var FileRepositoryTracer = otel.Tracer("FileRepository")

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string { return r.path }

func (r *FileRepository) Load(ctx context.Context) ([]model.Product, error) {
	_, span := FileRepositoryTracer.Start(ctx, "FileRepository.Load")
	defer span.End()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Product{}, nil
		}
		return []model.Product{}, apperr.Persistence(err, "read catalog")
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []model.Product{}, nil
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return []model.Product{}, apperr.Persistence(err, "decode catalog "+r.path)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// Save rewrites the file through a temp file + rename so readers never see a
// half-written catalog.
func (r *FileRepository) Save(ctx context.Context, products []model.Product) error {
	ctx, span := FileRepositoryTracer.Start(ctx, "FileRepository.Save")
	defer span.End()
	logger.Debug(ctx, "Repository", slog.Int("count", len(products)))

	if products == nil {
		products = []model.Product{}
	}
	data, err := encodeCatalog(products)
	if err != nil {
		return apperr.Persistence(err, "encode catalog")
	}
	return apperr.Persistence(writeFileAtomic(r.path, data), "save catalog")
}

// encodeCatalog writes two-space indented JSON without HTML escaping, so image
// URLs keep their literal '&' and no trailing newline is added.
func encodeCatalog(products []model.Product) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (r *FileRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return apperr.Persistence(err, "stat catalog dir")
	}
	if !info.IsDir() {
		return apperr.Persistence(errors.New(dir+" is not a directory"), "stat catalog dir")
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
