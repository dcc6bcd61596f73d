package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kh4lidmd/portfolio-backend/internal/models"
	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

type SkillHandler struct {
	db storage.Store
}

func NewSkillHandler(db storage.Store) *SkillHandler {
	return &SkillHandler{db: db}
}

func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.db.ListSkills()
	if err != nil {
		logrus.Errorf("failed to list skills: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load skills"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": skills})
}

func (h *SkillHandler) Create(c *gin.Context) {
	var skill models.Skill
	if err := c.ShouldBindJSON(&skill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	skill.ID = uuid.New().String()
	skill.CreatedAt = time.Now()
	skill.UpdatedAt = skill.CreatedAt

	if err := h.db.SaveSkill(&skill); err != nil {
		logrus.Errorf("failed to save skill: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save skill"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": skill})
}

func (h *SkillHandler) Update(c *gin.Context) {
	id := c.Param("id")
	existing, ok := h.db.GetSkill(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "skill not found"})
		return
	}

	var skill models.Skill
	if err := c.ShouldBindJSON(&skill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	skill.ID = existing.ID
	skill.CreatedAt = existing.CreatedAt
	if skill.Icon == nil {
		skill.Icon = existing.Icon
	}
	skill.UpdatedAt = time.Now()

	if err := h.db.SaveSkill(&skill); err != nil {
		logrus.Errorf("failed to update skill %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update skill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": skill})
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.db.DeleteSkill(id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "skill not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "skill deleted"})
}
