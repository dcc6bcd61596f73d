package assets

import (
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/kh4lidmd/portfolio-backend/internal/configuration"
)

// objectAPI is the slice of the MinIO client the remote store consumes.
// *minio.Client satisfies it; tests substitute a fake.
type objectAPI interface {
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// VariantOptions selects an on-the-fly delivery variant. The zero value
// means the untransformed original.
type VariantOptions struct {
	Width   int
	Height  int
	FitMode string
}

// ThumbnailPreset is the default square variant attached to every upload.
var ThumbnailPreset = VariantOptions{Width: 200, Height: 200, FitMode: "fill"}

// RemoteStore uploads assets to an S3-compatible object store and derives
// delivery URLs for an image proxy fronting the bucket. All configuration is
// injected at construction; there is no package-level client.
type RemoteStore struct {
	api           objectAPI
	bucket        string
	folder        string
	publicBaseURL string
}

func NewRemoteStore(cfg configuration.RemoteStorageConfig) (*RemoteStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	// Create bucket if it doesn't exist
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("created bucket %s", cfg.Bucket)
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return newRemoteStore(client, cfg.Bucket, cfg.Folder, publicBase), nil
}

func newRemoteStore(api objectAPI, bucket, folder, publicBaseURL string) *RemoteStore {
	return &RemoteStore{
		api:           api,
		bucket:        bucket,
		folder:        strings.Trim(folder, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Put streams the staged file to the remote store. The staged file is
// discarded on both branches; it never outlives the one Put attempt.
func (s *RemoteStore) Put(ctx context.Context, staged *StagedFile) (*StoredAsset, error) {
	defer staged.Discard()

	// the remote key is opaque: folder prefix, no extension
	objectName := path.Join(s.folder, staged.Identifier)

	width, height := decodeDimensions(staged.Path)

	_, err := s.api.FPutObject(ctx, s.bucket, objectName, staged.Path, minio.PutObjectOptions{
		ContentType: staged.ContentType,
	})
	if err != nil {
		return nil, remoteUploadFailed(err)
	}

	return &StoredAsset{
		Identifier: objectName,
		PrimaryURL: s.DeriveURL(objectName, VariantOptions{}),
		DerivedURLs: map[string]string{
			"thumbnail": s.DeriveURL(objectName, ThumbnailPreset),
		},
		Width:    width,
		Height:   height,
		Format:   strings.TrimPrefix(staged.Ext, "."),
		ByteSize: staged.Size,
	}, nil
}

// DeriveURL builds a delivery URL for the identifier. Pure: no network call,
// same inputs always yield the same string. Transformations ride on the
// image proxy's query convention with automatic format negotiation.
func (s *RemoteStore) DeriveURL(identifier string, opts VariantOptions) string {
	base := fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, identifier)
	if opts.Width == 0 && opts.Height == 0 {
		return base
	}
	fit := opts.FitMode
	if fit == "" {
		fit = "fill"
	}
	return fmt.Sprintf("%s?w=%d&h=%d&fit=%s&auto=format", base, opts.Width, opts.Height, fit)
}

// Delete removes one remote object. Deleting an unknown identifier reports
// a not_found code instead of failing.
func (s *RemoteStore) Delete(ctx context.Context, identifier string) DeleteResult {
	if _, err := s.api.StatObject(ctx, s.bucket, identifier, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return DeleteResult{Success: false, Code: DeleteCodeNotFound}
		}
		logrus.Errorf("failed to stat remote asset %s: %v", identifier, err)
		return DeleteResult{Success: false, Code: DeleteCodeError}
	}

	if err := s.api.RemoveObject(ctx, s.bucket, identifier, minio.RemoveObjectOptions{}); err != nil {
		logrus.Errorf("failed to delete remote asset %s: %v", identifier, err)
		return DeleteResult{Success: false, Code: DeleteCodeError}
	}
	return DeleteResult{Success: true, Code: DeleteCodeOK}
}

// BatchDeleteResult pairs one identifier with its delete outcome.
type BatchDeleteResult struct {
	Identifier string       `json:"identifier"`
	Result     DeleteResult `json:"result"`
}

// BatchDelete deletes identifiers one at a time; a failure never aborts the
// remaining deletions. This is an administrative path, not a hot path.
func (s *RemoteStore) BatchDelete(ctx context.Context, identifiers []string) []BatchDeleteResult {
	results := make([]BatchDeleteResult, 0, len(identifiers))
	for _, id := range identifiers {
		results = append(results, BatchDeleteResult{
			Identifier: id,
			Result:     s.Delete(ctx, id),
		})
	}
	return results
}

// SweepOlderThan deletes every object under the configured folder whose
// creation time precedes now - days. The listing iterates the full object
// channel, so nothing beyond the first page is silently dropped.
func (s *RemoteStore) SweepOlderThan(ctx context.Context, days int) SweepReport {
	report := SweepReport{}
	cutoff := time.Now().AddDate(0, 0, -days)

	prefix := ""
	if s.folder != "" {
		prefix = s.folder + "/"
	}

	var expired []string
	for obj := range s.api.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("list: %v", obj.Err))
			return report
		}
		if obj.LastModified.Before(cutoff) {
			expired = append(expired, obj.Key)
		}
	}

	for _, res := range s.BatchDelete(ctx, expired) {
		if res.Result.Success {
			report.DeletedCount++
		} else {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", res.Identifier, res.Result.Code))
		}
	}
	return report
}

// decodeDimensions reads the image header only; failure is tolerated since
// dimensions are informational on the remote path.
func decodeDimensions(filePath string) (int, int) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
