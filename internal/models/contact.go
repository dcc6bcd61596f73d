package models

import "time"

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required,max=100"`
	Email     string    `json:"email" binding:"required,email"`
	Subject   string    `json:"subject" binding:"max=150"`
	Body      string    `json:"body" binding:"required,max=5000"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
