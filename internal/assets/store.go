package assets

import (
	"context"
	"errors"
	"fmt"
)

// StoredAsset is the persisted reference to one stored image. The identifier
// alone is enough to delete the asset or re-derive its URLs later.
type StoredAsset struct {
	Identifier  string            `json:"identifier"`
	PrimaryURL  string            `json:"url"`
	DerivedURLs map[string]string `json:"derived_urls,omitempty"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Format      string            `json:"format"`
	ByteSize    int64             `json:"size"`
}

// DeleteResult reports the outcome of a delete. Deleting an identifier that
// does not exist is not an error; it is a non-success result code.
type DeleteResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
}

const (
	DeleteCodeOK       = "ok"
	DeleteCodeNotFound = "not_found"
	DeleteCodeError    = "error"
)

// SweepReport aggregates a retention sweep. Per-file failures are collected,
// never fatal to the sweep.
type SweepReport struct {
	DeletedCount int      `json:"deleted_count"`
	Errors       []string `json:"errors,omitempty"`
}

// Store is the single abstraction over the two asset backends. Exactly one
// implementation is active per deployment, chosen at startup.
type Store interface {
	Put(ctx context.Context, staged *StagedFile) (*StoredAsset, error)
	Delete(ctx context.Context, identifier string) DeleteResult
	SweepOlderThan(ctx context.Context, days int) SweepReport
}

var (
	// ErrNotFound is returned when an identifier resolves to nothing.
	ErrNotFound = errors.New("asset not found")
)

// StoreError translates backend failures into the upload error taxonomy so
// raw driver errors never reach the HTTP layer.
type StoreError struct {
	Kind  string // "remote_upload_failed" or "local_io_failed"
	cause error
}

const (
	KindRemoteUploadFailed = "remote_upload_failed"
	KindLocalIOFailed      = "local_io_failed"
)

func (e *StoreError) Error() string {
	switch e.Kind {
	case KindRemoteUploadFailed:
		return fmt.Sprintf("remote upload failed: %v", e.cause)
	default:
		return fmt.Sprintf("local storage failed: %v", e.cause)
	}
}

func (e *StoreError) Unwrap() error { return e.cause }

func remoteUploadFailed(err error) error {
	return &StoreError{Kind: KindRemoteUploadFailed, cause: err}
}

func localIOFailed(err error) error {
	return &StoreError{Kind: KindLocalIOFailed, cause: err}
}
