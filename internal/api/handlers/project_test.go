package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kh4lidmd/portfolio-backend/internal/assets"
	"github.com/kh4lidmd/portfolio-backend/internal/models"
	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

type fakeDB struct {
	storage.Store

	projects map[string]models.Project
	saveErr  error
}

func newFakeDB() *fakeDB {
	return &fakeDB{projects: make(map[string]models.Project)}
}

func (f *fakeDB) SaveProject(p *models.Project) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.projects[p.ID] = *p
	return nil
}

func (f *fakeDB) GetProject(id string) (models.Project, bool) {
	p, ok := f.projects[id]
	return p, ok
}

func (f *fakeDB) GetProjectBySlug(slug string) (models.Project, bool) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return models.Project{}, false
}

func (f *fakeDB) ListProjects() ([]models.Project, error) {
	out := make([]models.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeDB) DeleteProject(id string) (models.Project, bool) {
	p, ok := f.projects[id]
	if ok {
		delete(f.projects, id)
	}
	return p, ok
}

func newProjectRouter(t *testing.T, db *fakeDB) (*gin.Engine, *assets.LocalStore) {
	t.Helper()

	store, err := assets.NewLocalStore(filepath.Join(t.TempDir(), "uploads"), "http://localhost:8080", "/static")
	require.NoError(t, err)

	orchestrator := assets.NewOrchestrator(store, assets.Policy{
		AllowedTypes: []string{"image/png"},
		MaxBytes:     1 << 20,
	}, t.TempDir())

	h := NewProjectHandler(db, store, orchestrator, nil)
	r := gin.New()
	r.GET("/projects/:id", h.Get)
	r.POST("/projects", h.Create)
	r.PUT("/projects/:id", h.Update)
	r.DELETE("/projects/:id", h.Delete)
	r.POST("/projects/:id/images", h.AttachImage)
	return r, store
}

func assetRootEntries(t *testing.T, store *assets.LocalStore) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	files := entries[:0]
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e)
		}
	}
	return files
}

func TestCreateProjectDerivesSlug(t *testing.T) {
	db := newFakeDB()
	r, _ := newProjectRouter(t, db)

	payload := `{"title": "My First App!", "description": "A thing I built."}`
	req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, db.projects, 1)
	for _, p := range db.projects {
		assert.Equal(t, "my-first-app", p.Slug)
	}
}

func TestUpdateProjectRefreshesTimestamp(t *testing.T) {
	db := newFakeDB()
	created := time.Now().Add(-time.Hour)
	db.projects["p1"] = models.Project{ID: "p1", Title: "App", Slug: "app", CreatedAt: created, UpdatedAt: created}
	r, _ := newProjectRouter(t, db)

	payload := `{"title": "App v2", "description": "reworked"}`
	req := httptest.NewRequest(http.MethodPut, "/projects/p1", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	saved := db.projects["p1"]
	assert.True(t, saved.CreatedAt.Equal(created))
	assert.True(t, saved.UpdatedAt.After(created))
}

func TestGetProjectFallsBackToSlug(t *testing.T) {
	db := newFakeDB()
	db.projects["p1"] = models.Project{ID: "p1", Title: "App", Slug: "my-app"}
	r, _ := newProjectRouter(t, db)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/my-app", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachImageSuccess(t *testing.T) {
	db := newFakeDB()
	db.projects["p1"] = models.Project{ID: "p1", Title: "App", Slug: "app"}
	r, _ := newProjectRouter(t, db)

	req := multipartRequest(t, http.MethodPost, "/projects/p1/images", []testFile{
		{field: "image", filename: "shot.png", contentType: "image/png", content: pngBytes(t, 20, 20)},
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	saved := db.projects["p1"]
	require.Len(t, saved.Images, 1)
	assert.NotEmpty(t, saved.Images[0].Identifier)
}

func TestAttachImageCompensatesOnSaveFailure(t *testing.T) {
	db := newFakeDB()
	db.projects["p1"] = models.Project{ID: "p1", Title: "App", Slug: "app"}
	r, store := newProjectRouter(t, db)
	db.saveErr = errors.New("db unavailable")

	req := multipartRequest(t, http.MethodPost, "/projects/p1/images", []testFile{
		{field: "image", filename: "shot.png", contentType: "image/png", content: pngBytes(t, 20, 20)},
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// the just-stored asset was compensatingly deleted
	assert.Empty(t, assetRootEntries(t, store))
}

func TestDeleteProjectCascadesAssets(t *testing.T) {
	db := newFakeDB()
	r, store := newProjectRouter(t, db)

	// seed a project whose image actually exists in the store
	staged := filepath.Join(t.TempDir(), "seed")
	require.NoError(t, os.WriteFile(staged, pngBytes(t, 10, 10), 0o644))
	asset, err := store.Put(context.Background(), &assets.StagedFile{
		Identifier: assets.GenerateIdentifier("seed.png"),
		Path:       staged,
		Size:       10,
		Ext:        ".png",
	})
	require.NoError(t, err)
	db.projects["p1"] = models.Project{ID: "p1", Images: []assets.StoredAsset{*asset}}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/projects/p1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["asset_errors"])
	assert.Empty(t, assetRootEntries(t, store))
	assert.Empty(t, db.projects)
}

func TestDeleteProjectReportsAssetFailures(t *testing.T) {
	db := newFakeDB()
	r, _ := newProjectRouter(t, db)
	db.projects["p1"] = models.Project{ID: "p1", Images: []assets.StoredAsset{{Identifier: "never-stored.png"}}}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/projects/p1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["asset_errors"])
}
