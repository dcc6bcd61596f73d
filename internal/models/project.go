package models

import (
	"time"

	"github.com/kh4lidmd/portfolio-backend/internal/assets"
)

type Project struct {
	ID           string               `json:"id"`
	Title        string               `json:"title" binding:"required,max=120"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description" binding:"required,max=5000"`
	TechStack    []string             `json:"tech_stack" binding:"max=30,dive,max=40"`
	RepoURL      string               `json:"repo_url" binding:"omitempty,url"`
	LiveURL      string               `json:"live_url" binding:"omitempty,url"`
	Featured     bool                 `json:"featured"`
	DisplayOrder int                  `json:"display_order"`
	Images       []assets.StoredAsset `json:"images"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
