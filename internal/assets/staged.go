package assets

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StagedFile is one uploaded file written to the scratch directory, tagged
// with its generated identifier. It is consumed by exactly one store Put and
// discarded unconditionally afterward, on success and on failure alike.
type StagedFile struct {
	Identifier   string
	OriginalName string
	Path         string
	Size         int64
	ContentType  string
	Ext          string

	once sync.Once
}

// Discard removes the staged file from disk. It is safe to call more than
// once; only the first call touches the filesystem.
func (s *StagedFile) Discard() {
	s.once.Do(func() {
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			// nothing the caller can do; the sweep picks up leftovers
			logrus.Warnf("failed to discard staged file %s: %v", s.Path, err)
		}
	})
}

// EnsureScratchDir creates the staging directory once at startup so upload
// handlers never have to existence-check it per request.
func EnsureScratchDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create scratch directory %s: %w", path, err)
	}
	return nil
}

// StageMultipart copies one multipart file into the scratch directory and
// assigns its identifier. The caller owns the returned StagedFile and must
// Discard it on every exit path.
func StageMultipart(fh *multipart.FileHeader, scratchDir string) (*StagedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(scratchDir, uuid.New().String())
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	return &StagedFile{
		Identifier:   GenerateIdentifier(fh.Filename),
		OriginalName: fh.Filename,
		Path:         path,
		Size:         written,
		ContentType:  fh.Header.Get("Content-Type"),
		Ext:          NormalizeExt(fh.Filename),
	}, nil
}
