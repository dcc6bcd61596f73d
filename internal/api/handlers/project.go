package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kh4lidmd/portfolio-backend/internal/assets"
	"github.com/kh4lidmd/portfolio-backend/internal/models"
	"github.com/kh4lidmd/portfolio-backend/internal/services"
	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

type ProjectHandler struct {
	db           storage.Store
	store        assets.Store
	orchestrator *assets.Orchestrator
	events       *services.EventPublisher
}

func NewProjectHandler(db storage.Store, store assets.Store, orchestrator *assets.Orchestrator, events *services.EventPublisher) *ProjectHandler {
	return &ProjectHandler{db: db, store: store, orchestrator: orchestrator, events: events}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.db.ListProjects()
	if err != nil {
		logrus.Errorf("failed to list projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": projects})
}

// Get resolves by id first, then by slug, so public pages can link either
// way.
func (h *ProjectHandler) Get(c *gin.Context) {
	key := c.Param("id")
	project, ok := h.db.GetProject(key)
	if !ok {
		project, ok = h.db.GetProjectBySlug(key)
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	project.ID = uuid.New().String()
	if project.Slug == "" {
		project.Slug = slugify(project.Title)
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt

	if err := h.db.SaveProject(&project); err != nil {
		logrus.Errorf("failed to save project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save project"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": project})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id := c.Param("id")
	existing, ok := h.db.GetProject(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	var project models.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	project.ID = existing.ID
	project.CreatedAt = existing.CreatedAt
	if project.Slug == "" {
		project.Slug = existing.Slug
	}
	if project.Images == nil {
		project.Images = existing.Images
	}
	project.UpdatedAt = time.Now()

	if err := h.db.SaveProject(&project); err != nil {
		logrus.Errorf("failed to update project %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

// Delete removes the project and best-effort deletes its stored images.
// Asset failures are reported, not fatal to the delete.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	project, ok := h.db.DeleteProject(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	var assetErrors []string
	for _, img := range project.Images {
		res := h.store.Delete(c.Request.Context(), img.Identifier)
		if !res.Success {
			assetErrors = append(assetErrors, img.Identifier+": "+res.Code)
			continue
		}
		h.events.Publish(services.SubjectAssetDeleted, gin.H{"identifier": img.Identifier})
	}

	resp := gin.H{"success": true, "message": "project deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}

// AttachImage stores an uploaded image and references it on the project.
// Two-phase: asset first, row second; on a failed row write the just-stored
// asset is best-effort deleted so it does not orphan silently. Exactly-once
// is not guaranteed; a crash between the phases leaves the asset for the
// sweep.
func (h *ProjectHandler) AttachImage(c *gin.Context) {
	id := c.Param("id")
	project, ok := h.db.GetProject(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

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

	project.Images = append(project.Images, *result.Asset)
	if err := h.db.SaveProject(&project); err != nil {
		logrus.Errorf("failed to reference image on project %s: %v", id, err)
		if res := h.store.Delete(c.Request.Context(), result.Asset.Identifier); !res.Success {
			logrus.Errorf("compensating delete failed for %s (code %s); reconcile offline", result.Asset.Identifier, res.Code)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save project image"})
		return
	}

	h.events.Publish(services.SubjectAssetUploaded, result.Asset)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"asset":   result.Asset,
		"project": project,
	}})
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
