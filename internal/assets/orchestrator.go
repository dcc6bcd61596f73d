package assets

import (
	"context"
	"mime/multipart"

	"github.com/sirupsen/logrus"
)

// FileResult is the uniform per-file outcome of a batch upload. A batch with
// zero successes is still an ordinary response carrying per-file detail.
type FileResult struct {
	Filename string       `json:"filename"`
	Success  bool         `json:"success"`
	Rejected bool         `json:"rejected,omitempty"`
	Asset    *StoredAsset `json:"asset,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// Orchestrator drives each file through
// Received -> Validated -> Staged -> Stored | Rejected | Failed.
// Rejected files never touch disk or network; staged files are discarded on
// every exit path.
type Orchestrator struct {
	store      Store
	policy     Policy
	scratchDir string
}

func NewOrchestrator(store Store, policy Policy, scratchDir string) *Orchestrator {
	return &Orchestrator{store: store, policy: policy, scratchDir: scratchDir}
}

// Process handles one file. Store failures are captured in the result, not
// returned, so a batch can report partial success.
func (o *Orchestrator) Process(ctx context.Context, fh *multipart.FileHeader) FileResult {
	result := FileResult{Filename: fh.Filename}

	violations := o.policy.Validate(fh.Header.Get("Content-Type"), fh.Size)
	if len(violations) > 0 {
		result.Rejected = true
		for _, v := range violations {
			result.Errors = append(result.Errors, v.Message())
		}
		return result
	}

	staged, err := StageMultipart(fh, o.scratchDir)
	if err != nil {
		result.Errors = append(result.Errors, localIOFailed(err).Error())
		return result
	}
	defer staged.Discard()

	asset, err := o.store.Put(ctx, staged)
	if err != nil {
		logrus.Warnf("upload failed for %s: %v", fh.Filename, err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Success = true
	result.Asset = asset
	return result
}

// ProcessMany handles a batch sequentially. Results match the input order;
// one file's failure never cancels another's.
func (o *Orchestrator) ProcessMany(ctx context.Context, fhs []*multipart.FileHeader) []FileResult {
	results := make([]FileResult, 0, len(fhs))
	for _, fh := range fhs {
		results = append(results, o.Process(ctx, fh))
	}
	return results
}
