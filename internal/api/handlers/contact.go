package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kh4lidmd/portfolio-backend/internal/models"
	"github.com/kh4lidmd/portfolio-backend/internal/services"
	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

type ContactHandler struct {
	db     storage.Store
	events *services.EventPublisher
}

func NewContactHandler(db storage.Store, events *services.EventPublisher) *ContactHandler {
	return &ContactHandler{db: db, events: events}
}

// Create is the public contact-form endpoint.
func (h *ContactHandler) Create(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	msg.ID = uuid.New().String()
	msg.Read = false
	msg.CreatedAt = time.Now()

	if err := h.db.SaveContact(&msg); err != nil {
		logrus.Errorf("failed to save contact message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save message"})
		return
	}

	h.events.Publish(services.SubjectContactReceived, gin.H{"id": msg.ID, "email": msg.Email})
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "message received"})
}

func (h *ContactHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	messages, err := h.db.ListContacts(unreadOnly)
	if err != nil {
		logrus.Errorf("failed to list contact messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
}

func (h *ContactHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if !h.db.MarkContactRead(id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "message marked read"})
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.db.DeleteContact(id) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "message deleted"})
}
