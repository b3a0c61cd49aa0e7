package controllers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/storage"
)

type SettingsController struct {
	store storage.Store
	log   zerolog.Logger
}

func NewSettingsController(store storage.Store, log zerolog.Logger) *SettingsController {
	return &SettingsController{store: store, log: log}
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// GET /api/admin/site-settings
func (sc *SettingsController) Get(c *gin.Context) {
	settings, err := sc.store.GetSiteSettings()
	if err != nil {
		sc.log.Error().Err(err).Msg("load site settings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load site settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type SettingsReq struct {
	LogoURL        *string `json:"logoUrl"`
	PrimaryColor   *string `json:"primaryColor"`
	SecondaryColor *string `json:"secondaryColor"`
}

// PUT /api/admin/site-settings (partial update of the singleton row)
func (sc *SettingsController) Update(c *gin.Context) {
	var req SettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid settings data", "error": err.Error()})
		return
	}

	if req.PrimaryColor != nil && !hexColorRe.MatchString(*req.PrimaryColor) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Primary color must be a hex code like #RRGGBB"})
		return
	}
	if req.SecondaryColor != nil && !hexColorRe.MatchString(*req.SecondaryColor) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Secondary color must be a hex code like #RRGGBB"})
		return
	}

	settings, err := sc.store.GetSiteSettings()
	if err != nil {
		sc.log.Error().Err(err).Msg("load site settings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load site settings"})
		return
	}

	if req.LogoURL != nil {
		settings.LogoURL = req.LogoURL
	}
	if req.PrimaryColor != nil {
		settings.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		settings.SecondaryColor = *req.SecondaryColor
	}

	if err := sc.store.UpdateSiteSettings(settings); err != nil {
		sc.log.Error().Err(err).Msg("update site settings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update site settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
