package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whatsons/members-api/storage"
)

type HealthController struct {
	store storage.Store
}

func NewHealthController(store storage.Store) *HealthController {
	return &HealthController{store: store}
}

// GET /health
func (hc *HealthController) Check(c *gin.Context) {
	response := gin.H{
		"status": "ok",
		"db":     "ok",
	}

	if err := hc.store.Ping(); err != nil {
		response["status"] = "degraded"
		response["db"] = "error: cannot reach storage"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
