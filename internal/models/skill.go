package models

import (
	"time"

	"github.com/kh4lidmd/portfolio-backend/internal/assets"
)

type Skill struct {
	ID           string              `json:"id"`
	Name         string              `json:"name" binding:"required,max=60"`
	Category     string              `json:"category" binding:"required,oneof=language framework tool database other"`
	Proficiency  int                 `json:"proficiency" binding:"required,min=1,max=5"`
	Icon         *assets.StoredAsset `json:"icon,omitempty"`
	DisplayOrder int                 `json:"display_order"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
