package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/middleware"
	"github.com/whatsons/members-api/models"
	"github.com/whatsons/members-api/storage"
)

type ParticipantController struct {
	store storage.Store
	log   zerolog.Logger
}

func NewParticipantController(store storage.Store, log zerolog.Logger) *ParticipantController {
	return &ParticipantController{store: store, log: log}
}

type ParticipateReq struct {
	Status        string  `json:"status" binding:"required,oneof=attending maybe declined"`
	RoomType      *string `json:"roomType" binding:"omitempty,oneof=single double triple quad"`
	RoomOccupancy *int    `json:"roomOccupancy" binding:"omitempty,min=1,max=4"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,oneof=pending paid"`
}

// POST /api/events/:id/participate
func (pc *ParticipantController) Participate(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	var req ParticipateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid participation data", "error": err.Error()})
		return
	}

	if _, err := pc.store.GetEvent(eventID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	u := middleware.CurrentUser(c)
	if _, err := pc.store.GetUserEventParticipation(u.ID, eventID); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Participation request already exists"})
		return
	}

	p := models.EventParticipant{
		EventID:       eventID,
		UserID:        u.ID,
		Status:        req.Status,
		RoomType:      req.RoomType,
		RoomOccupancy: req.RoomOccupancy,
	}
	if req.PaymentStatus != nil {
		p.PaymentStatus = *req.PaymentStatus
	}

	if err := pc.store.AddParticipant(&p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Participation request already exists"})
			return
		}
		pc.log.Error().Err(err).Msg("add participant failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create participation"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

type ParticipationUpdateReq struct {
	RoomType      string `json:"roomType" binding:"required,oneof=single double triple quad"`
	RoomOccupancy int    `json:"roomOccupancy" binding:"required,min=1,max=4"`
}

// PUT /api/events/:id/participate
//
// Stashes the previously approved values into oldValues and drops the
// participant back to unapproved, so an admin can later approve the edit or
// reject it and restore the snapshot.
func (pc *ParticipantController) UpdateParticipation(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	var req ParticipationUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid update data", "error": err.Error()})
		return
	}

	u := middleware.CurrentUser(c)
	p, err := pc.store.GetUserEventParticipation(u.ID, eventID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Participation not found"})
		return
	}

	p.OldValues = models.Snapshot{Data: &models.ParticipantSnapshot{
		RoomType:      p.RoomType,
		RoomOccupancy: p.RoomOccupancy,
		IsApproved:    p.IsApproved,
	}}
	p.RoomType = &req.RoomType
	p.RoomOccupancy = &req.RoomOccupancy
	p.IsApproved = false

	if err := pc.store.UpdateParticipant(p); err != nil {
		pc.log.Error().Err(err).Msg("update participation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update participation"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/events/:id/my-participation
func (pc *ParticipantController) MyParticipation(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	u := middleware.CurrentUser(c)
	p, err := pc.store.GetUserEventParticipation(u.ID, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load participation"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// participantWithUser embeds the participant's contact details for admins.
type participantWithUser struct {
	models.EventParticipant
	User *participantUser `json:"user"`
}

type participantUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// GET /api/events/:id/participants
//
// Admins see every request with user contact details; regular users only see
// approved participants.
func (pc *ParticipantController) ListEventParticipants(c *gin.Context) {
	eventID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	participants, err := pc.store.ListEventParticipants(eventID)
	if err != nil {
		pc.log.Error().Err(err).Msg("list participants failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load participants"})
		return
	}

	u := middleware.CurrentUser(c)
	if !u.IsAdmin() {
		approved := make([]models.EventParticipant, 0, len(participants))
		for _, p := range participants {
			if p.IsApproved {
				approved = append(approved, p)
			}
		}
		c.JSON(http.StatusOK, approved)
		return
	}

	detailed := make([]participantWithUser, 0, len(participants))
	for _, p := range participants {
		entry := participantWithUser{EventParticipant: p}
		if pu, err := pc.store.GetUser(p.UserID); err == nil {
			entry.User = &participantUser{
				FirstName: pu.FirstName,
				LastName:  pu.LastName,
				Phone:     pu.Phone,
				Email:     pu.Email,
			}
		}
		detailed = append(detailed, entry)
	}
	c.JSON(http.StatusOK, detailed)
}

type participationWithEvent struct {
	models.EventParticipant
	Event *models.Event `json:"event"`
}

// GET /api/user/participations
func (pc *ParticipantController) MyParticipations(c *gin.Context) {
	u := middleware.CurrentUser(c)
	participants, err := pc.store.ListUserParticipations(u.ID)
	if err != nil {
		pc.log.Error().Err(err).Msg("list participations failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load participations"})
		return
	}

	out := make([]participationWithEvent, 0, len(participants))
	for _, p := range participants {
		entry := participationWithEvent{EventParticipant: p}
		if event, err := pc.store.GetEvent(p.EventID); err == nil {
			entry.Event = event
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}
