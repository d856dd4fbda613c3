package handlers

import (
	"net/http"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description Lists the tracked document kinds and their statuses.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "E-Tracking API v1",
		"kinds":    domain.AllKinds,
		"statuses": domain.AllStatuses,
	})
}

func registerHomeRoutes(group *gin.RouterGroup) {
	group.GET("/", getHome)
}
