package handlers

import (
	"net/http"

	"freightdesk/internal/http/middleware"
	"freightdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// LoadHandler serves load lookups.
type LoadHandler struct {
	Svc services.LoadService
}

// GET /api/v1/loads/:reference_number
func (h LoadHandler) Get(c *gin.Context) {
	svc := h.Svc
	svc.RequestID = middleware.GetRequestID(c)

	resp, err := svc.GetLoad(c.Request.Context(), c.Param("reference_number"))
	if err != nil {
		respondLoadError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
