package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kh4lidmd/portfolio-backend/internal/assets"
	"github.com/kh4lidmd/portfolio-backend/internal/services"
)

// maxBatchSize bounds one multi-upload request.
const maxBatchSize = 10

type UploadHandler struct {
	orchestrator *assets.Orchestrator
	store        assets.Store
	events       *services.EventPublisher
}

func NewUploadHandler(orchestrator *assets.Orchestrator, store assets.Store, events *services.EventPublisher) *UploadHandler {
	return &UploadHandler{orchestrator: orchestrator, store: store, events: events}
}

// UploadImage handles the single-file form field "image".
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no file provided"})
		return
	}

	result := h.orchestrator.Process(c.Request.Context(), fh)
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Rejected {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "message": strings.Join(result.Errors, "; ")})
		return
	}

	h.events.Publish(services.SubjectAssetUploaded, result.Asset)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": uploadData(result)})
}

// UploadMultiple handles the form field "images". Zero successes is still a
// 200 carrying per-file failure detail.
func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to parse multipart form: " + err.Error()})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no files provided"})
		return
	}
	if len(files) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "too many files in one request"})
		return
	}

	results := h.orchestrator.ProcessMany(c.Request.Context(), files)
	for _, r := range results {
		if r.Success {
			h.events.Publish(services.SubjectAssetUploaded, r.Asset)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
		"count":   len(results),
	})
}

// DeleteImage deletes by identifier. Remote identifiers contain the folder
// prefix, so the route uses a wildcard segment.
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	identifier := strings.TrimPrefix(c.Param("identifier"), "/")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "identifier is required"})
		return
	}

	result := h.store.Delete(c.Request.Context(), identifier)
	switch result.Code {
	case assets.DeleteCodeOK:
		h.events.Publish(services.SubjectAssetDeleted, gin.H{"identifier": identifier})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "image deleted"})
	case assets.DeleteCodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "image not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete image"})
	}
}

// SweepAssets runs the active store's retention sweep.
func (h *UploadHandler) SweepAssets(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "days must be a positive integer"})
		return
	}

	report := h.store.SweepOlderThan(c.Request.Context(), days)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

func uploadData(r assets.FileResult) gin.H {
	a := r.Asset
	return gin.H{
		"identifier":   a.Identifier,
		"url":          a.PrimaryURL,
		"derived_urls": a.DerivedURLs,
		"width":        a.Width,
		"height":       a.Height,
		"format":       a.Format,
		"size":         a.ByteSize,
		"filename":     r.Filename,
	}
}
