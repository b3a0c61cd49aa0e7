package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/middleware"
	"github.com/whatsons/members-api/storage"
	"github.com/whatsons/members-api/utils"
)

type ProfileController struct {
	store storage.Store
	log   zerolog.Logger
}

func NewProfileController(store storage.Store, log zerolog.Logger) *ProfileController {
	return &ProfileController{store: store, log: log}
}

type ProfileUpdateReq struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone" binding:"omitempty,min=10"`
	City       *string `json:"city"`
	Occupation *string `json:"occupation"`
	Instagram  *string `json:"instagram"`
}

// PUT /api/user/profile
//
// Only touches the user's own non-privileged fields; role, approval, active
// flag and password have their own endpoints.
func (pc *ProfileController) Update(c *gin.Context) {
	var req ProfileUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user data", "error": err.Error()})
		return
	}

	u := middleware.CurrentUser(c)
	user, err := pc.store.GetUser(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load profile"})
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.Occupation != nil {
		user.Occupation = *req.Occupation
	}
	if req.Instagram != nil {
		user.Instagram = req.Instagram
	}

	if err := pc.store.UpdateUser(user); err != nil {
		pc.log.Error().Err(err).Msg("update profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/user/avatar
//
// Imports the profile picture from the user's Instagram handle when one is
// set and reachable; otherwise falls back to Gravatar.
func (pc *ProfileController) ImportAvatar(c *gin.Context) {
	u := middleware.CurrentUser(c)
	user, err := pc.store.GetUser(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load profile"})
		return
	}

	var avatarURL string
	if user.Instagram != nil && *user.Instagram != "" {
		avatarURL, err = utils.FetchInstagramAvatar(*user.Instagram)
		if err != nil {
			pc.log.Debug().Err(err).Str("handle", *user.Instagram).Msg("instagram avatar fetch failed")
			avatarURL = ""
		}
	}
	if avatarURL == "" {
		avatarURL = utils.GravatarURL(user.Email)
	}

	user.AvatarURL = &avatarURL
	if err := pc.store.UpdateUser(user); err != nil {
		pc.log.Error().Err(err).Msg("update avatar failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update avatar"})
		return
	}
	c.JSON(http.StatusOK, user)
}
