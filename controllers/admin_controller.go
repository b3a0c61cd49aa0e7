package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/models"
	"github.com/whatsons/members-api/storage"
)

type AdminController struct {
	store storage.Store
	log   zerolog.Logger
}

func NewAdminController(store storage.Store, log zerolog.Logger) *AdminController {
	return &AdminController{store: store, log: log}
}

// GET /api/admin/users
func (ad *AdminController) ListUsers(c *gin.Context) {
	users, err := ad.store.ListUsers()
	if err != nil {
		ad.log.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// POST /api/admin/users/:id/approve
func (ad *AdminController) ApproveUser(c *gin.Context) {
	user, ok := ad.loadUser(c)
	if !ok {
		return
	}

	user.IsApproved = true
	if err := ad.store.UpdateUser(user); err != nil {
		ad.log.Error().Err(err).Msg("approve user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not approve user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type RoleReq struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

// POST /api/admin/users/:id/role
func (ad *AdminController) SetUserRole(c *gin.Context) {
	var req RoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		return
	}

	user, ok := ad.loadUser(c)
	if !ok {
		return
	}

	user.Role = req.Role
	if err := ad.store.UpdateUser(user); err != nil {
		ad.log.Error().Err(err).Msg("set role failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update role"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/admin/users/:id/toggle-active
func (ad *AdminController) ToggleUserActive(c *gin.Context) {
	user, ok := ad.loadUser(c)
	if !ok {
		return
	}

	user.IsActive = !user.IsActive
	if err := ad.store.UpdateUser(user); err != nil {
		ad.log.Error().Err(err).Msg("toggle active failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update user"})
		return
	}

	ad.log.Info().Uint("user_id", user.ID).Bool("active", user.IsActive).Msg("user active flag toggled")
	c.JSON(http.StatusOK, user)
}

// POST /api/admin/events/:eventId/participants/:participantId/approve
func (ad *AdminController) ApproveParticipant(c *gin.Context) {
	p, ok := ad.loadParticipant(c)
	if !ok {
		return
	}

	p.IsApproved = true
	p.OldValues = models.Snapshot{}
	if err := ad.store.UpdateParticipant(p); err != nil {
		ad.log.Error().Err(err).Msg("approve participant failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not approve participant"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/admin/events/:eventId/participants/:participantId/reject
//
// Restores the exact values stashed when the user submitted the edit.
func (ad *AdminController) RejectParticipant(c *gin.Context) {
	p, ok := ad.loadParticipant(c)
	if !ok {
		return
	}

	if p.OldValues.Data == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Participation or previous values not found"})
		return
	}

	old := p.OldValues.Data
	p.RoomType = old.RoomType
	p.RoomOccupancy = old.RoomOccupancy
	p.IsApproved = old.IsApproved
	p.OldValues = models.Snapshot{}

	if err := ad.store.UpdateParticipant(p); err != nil {
		ad.log.Error().Err(err).Msg("reject participant failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not reject participant"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type PaymentReq struct {
	Status string `json:"status" binding:"required,oneof=pending paid"`
}

// PUT /api/admin/events/:eventId/participants/:participantId/payment
func (ad *AdminController) UpdateParticipantPayment(c *gin.Context) {
	var req PaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment status"})
		return
	}

	p, ok := ad.loadParticipant(c)
	if !ok {
		return
	}

	p.PaymentStatus = req.Status
	if err := ad.store.UpdateParticipant(p); err != nil {
		ad.log.Error().Err(err).Msg("update payment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update payment status"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ad *AdminController) loadUser(c *gin.Context) (*models.User, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return nil, false
	}

	user, err := ad.store.GetUser(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load user"})
		return nil, false
	}
	return user, true
}

func (ad *AdminController) loadParticipant(c *gin.Context) (*models.EventParticipant, bool) {
	id, err := parseID(c.Param("participantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid participant id"})
		return nil, false
	}

	p, err := ad.store.GetParticipant(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Participant not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load participant"})
		return nil, false
	}
	return p, true
}
