package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// getHealth godoc
// @Summary Show the status of server.
// @Description Liveness probe. Not behind the session check.
// @Tags root
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// getHome sends the browser to the dashboard, which in turn picks the landing page.
func getHome(c *gin.Context) {
	seeOther(c, "/dashboard")
}
