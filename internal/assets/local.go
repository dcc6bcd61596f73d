package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

const (
	thumbnailDir  = "thumbnails"
	thumbnailSize = 200
)

// LocalStore keeps assets on the local filesystem and serves them through
// the static file route. Each asset gets a square thumbnail under
// {root}/thumbnails alongside the primary file.
type LocalStore struct {
	root         string
	baseURL      string
	publicPrefix string
}

func NewLocalStore(root, baseURL, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, thumbnailDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset root %s: %w", root, err)
	}
	return &LocalStore{
		root:         root,
		baseURL:      strings.TrimRight(baseURL, "/"),
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

// Root is the directory the static file route should serve.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Put(ctx context.Context, staged *StagedFile) (*StoredAsset, error) {
	// the extension stays part of the stored identifier so deletion needs
	// nothing but the identifier
	storedID := staged.Identifier + staged.Ext
	dstPath := filepath.Join(s.root, storedID)

	if err := copyFile(staged.Path, dstPath); err != nil {
		return nil, localIOFailed(err)
	}

	asset := &StoredAsset{
		Identifier: storedID,
		PrimaryURL: s.publicURL(storedID),
		Format:     strings.TrimPrefix(staged.Ext, "."),
		ByteSize:   staged.Size,
	}

	// Thumbnail derivation is best-effort: a decodable image gets a
	// fill+center-crop square; anything else keeps only the primary file.
	img, err := imaging.Open(dstPath)
	if err != nil {
		logrus.Warnf("thumbnail skipped for %s: %v", storedID, err)
		return asset, nil
	}
	asset.Width = img.Bounds().Dx()
	asset.Height = img.Bounds().Dy()

	thumb := imaging.Fill(img, thumbnailSize, thumbnailSize, imaging.Center, imaging.Lanczos)
	thumbPath := filepath.Join(s.root, thumbnailDir, storedID)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		logrus.Warnf("failed to save thumbnail for %s: %v", storedID, err)
		return asset, nil
	}
	asset.DerivedURLs = map[string]string{
		"thumbnail": s.publicURL(thumbnailDir + "/" + storedID),
	}
	return asset, nil
}

func (s *LocalStore) Delete(ctx context.Context, identifier string) DeleteResult {
	// identifiers are plain file names; anything that would resolve outside
	// the asset root is treated as unknown
	if !filepath.IsLocal(identifier) {
		return DeleteResult{Success: false, Code: DeleteCodeNotFound}
	}
	primary := filepath.Join(s.root, identifier)
	if err := os.Remove(primary); err != nil {
		if os.IsNotExist(err) {
			return DeleteResult{Success: false, Code: DeleteCodeNotFound}
		}
		logrus.Errorf("failed to delete asset %s: %v", identifier, err)
		return DeleteResult{Success: false, Code: DeleteCodeError}
	}

	// not every asset has a thumbnail; a missing one is not an error
	thumb := filepath.Join(s.root, thumbnailDir, identifier)
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to delete thumbnail for %s: %v", identifier, err)
	}

	return DeleteResult{Success: true, Code: DeleteCodeOK}
}

func (s *LocalStore) SweepOlderThan(ctx context.Context, days int) SweepReport {
	report := SweepReport{}
	cutoff := time.Now().AddDate(0, 0, -days)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("failed to read asset root: %v", err))
		return report
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, ctx.Err().Error())
			return report
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, entry.Name())); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		// expired primaries take their thumbnails with them
		thumb := filepath.Join(s.root, thumbnailDir, entry.Name())
		if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
			report.Errors = append(report.Errors, fmt.Sprintf("%s (thumbnail): %v", entry.Name(), err))
		}
		report.DeletedCount++
	}

	return report
}

func (s *LocalStore) publicURL(rel string) string {
	return s.baseURL + s.publicPrefix + "/" + rel
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
	}
	return err
}
