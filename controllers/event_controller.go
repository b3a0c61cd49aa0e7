package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/middleware"
	"github.com/whatsons/members-api/models"
	"github.com/whatsons/members-api/storage"
)

type EventController struct {
	store storage.Store
	log   zerolog.Logger
}

func NewEventController(store storage.Store, log zerolog.Logger) *EventController {
	return &EventController{store: store, log: log}
}

type EventReq struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Content     string    `json:"content" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Images      []string  `json:"images"`
}

// GET /api/events
func (ec *EventController) List(c *gin.Context) {
	events, err := ec.store.ListEvents()
	if err != nil {
		ec.log.Error().Err(err).Msg("list events failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /api/events/:id
func (ec *EventController) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	event, err := ec.store.GetEvent(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// POST /api/events (admin)
func (ec *EventController) Create(c *gin.Context) {
	var req EventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event data", "error": err.Error()})
		return
	}

	u := middleware.CurrentUser(c)
	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Date:        req.Date,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Images:      models.StringList(req.Images),
		CreatedByID: u.ID,
	}

	if err := ec.store.CreateEvent(&event); err != nil {
		ec.log.Error().Err(err).Msg("create event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

type EventUpdateReq struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Content     *string    `json:"content"`
	Date        *time.Time `json:"date"`
	EndDate     *time.Time `json:"endDate"`
	Location    *string    `json:"location"`
	Images      *[]string  `json:"images"`
}

// PUT /api/events/:id (admin, partial update)
func (ec *EventController) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	var req EventUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event data", "error": err.Error()})
		return
	}

	event, err := ec.store.GetEvent(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load event"})
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Content != nil {
		event.Content = *req.Content
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Images != nil {
		event.Images = models.StringList(*req.Images)
	}

	if err := ec.store.UpdateEvent(event); err != nil {
		ec.log.Error().Err(err).Msg("update event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// DELETE /api/events/:id (admin)
func (ec *EventController) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	if err := ec.store.DeleteEvent(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		ec.log.Error().Err(err).Msg("delete event failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return uint(id), err
}
