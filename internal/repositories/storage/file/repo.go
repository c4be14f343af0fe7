package filerepo

import (
	"digesto/internal/models"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const pkg = "fileRepo/"

const maxNameLen = 60

// Repository stores attachment blobs on local disk under a fixed root.
// Logical paths are caller-supplied (derived from display filenames), so
// every operation verifies the resolved path stays inside the root.
type Repository struct {
	log  *slog.Logger
	root string
}

func NewRepository(log *slog.Logger, root string) (*Repository, error) {
	op := pkg + "NewRepository"

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Repository{log: log, root: absRoot}, nil
}

func (r *Repository) SaveFile(relPath string, reader io.Reader) error {
	op := pkg + "SaveFile"

	dst, err := r.resolve(relPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	written, err := io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%s: %w", op, err)
	}
	if written == 0 {
		_ = os.Remove(dst)
		return fmt.Errorf("%s: %w", op, models.ErrEmptyPayload)
	}

	return nil
}

func (r *Repository) LoadFile(relPath string) (io.ReadCloser, error) {
	op := pkg + "LoadFile"

	src, err := r.resolve(relPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// DeleteFile is best-effort: a missing file is not an error and any I/O
// failure is logged as a warning, never returned. A dangling metadata row
// is recoverable; aborting the surrounding operation is not.
func (r *Repository) DeleteFile(relPath string) {
	op := pkg + "DeleteFile"

	log := r.log.With(slog.String("op", op))

	if relPath == "" {
		return
	}

	dst, err := r.resolve(relPath)
	if err != nil {
		log.Warn("refusing to delete file outside storage root", slog.String("path", relPath))
		return
	}

	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to delete file", slog.String("path", relPath), slog.String("error", err.Error()))
	}
}

// resolve joins relPath onto the root and rejects any path that escapes
// it once cleaned. This is the sole security boundary of the store.
func (r *Repository) resolve(relPath string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(r.root, relPath))
	if err != nil {
		return "", models.ErrInvalidPath
	}

	if abs != r.root && !strings.HasPrefix(abs, r.root+string(os.PathSeparator)) {
		return "", models.ErrInvalidPath
	}

	return abs, nil
}

// ShardedDir renders a document id as a zero-padded 9-digit string split
// into three directory levels, e.g. 123456 -> "documents/000/123/456".
// This bounds the number of entries per directory regardless of corpus
// size. Ids wider than nine digits keep their extra digits in the first
// level, so distinct ids never share a directory.
func ShardedDir(documentID int) string {
	padded := fmt.Sprintf("%09d", documentID)
	n := len(padded)
	return strings.Join([]string{"documents", padded[:n-6], padded[n-6 : n-3], padded[n-3:]}, "/")
}

// TruncateName shortens a display filename to 60 characters, preserving
// the extension when possible.
func TruncateName(name string) string {
	if len(name) <= maxNameLen {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	maxBase := maxNameLen - len(ext)
	if maxBase <= 0 {
		return name[:maxNameLen]
	}
	if len(base) > maxBase {
		base = base[:maxBase]
	}

	return base + ext
}
