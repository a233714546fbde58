package handlers

import (
	"errors"
	"net/http"

	"provenance-api/internal/database"
	"provenance-api/internal/endpoints"

	"github.com/gin-gonic/gin"
)

// CreateEndpointRequest represents the payload for registering a feed
type CreateEndpointRequest struct {
	URL    string `json:"url" binding:"required"`
	Accept string `json:"accept"`
}

// GetEndpoints handles GET /api/endpoints
// Returns every feed endpoint the worker polls.
func GetEndpoints(c *gin.Context) {
	eps, err := endpoints.NewGateway(database.GetDB()).FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch endpoints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"endpoints": eps,
		"count":     len(eps),
	})
}

// CreateEndpoint handles POST /api/endpoints
// Registers a feed endpoint for the worker to poll.
func CreateEndpoint(c *gin.Context) {
	var req CreateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ep, err := endpoints.NewGateway(database.GetDB()).Create(c.Request.Context(), req.URL, req.Accept)
	if err != nil {
		if errors.Is(err, endpoints.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create endpoint"})
		return
	}
	c.JSON(http.StatusCreated, ep)
}
