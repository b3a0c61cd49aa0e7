package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/utils"
)

type UploadController struct {
	uploader *utils.Uploader
	cfg      *config.Config
	log      zerolog.Logger
}

func NewUploadController(uploader *utils.Uploader, cfg *config.Config, log zerolog.Logger) *UploadController {
	return &UploadController{uploader: uploader, cfg: cfg, log: log}
}

// POST /api/uploads (admin)
//
// Accepts a multipart file (site logo, event images) and returns its public
// URL to be stored on the owning record.
func (uc *UploadController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file received"})
		return
	}
	if fileHeader.Size > uc.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File too large"})
		return
	}

	url, err := uc.uploader.Store(fileHeader, uuid.New().String(), c.PostForm("folder"))
	if err != nil {
		uc.log.Error().Err(err).Str("file", fileHeader.Filename).Msg("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
