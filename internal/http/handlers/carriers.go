package handlers

import (
	"net/http"

	"freightdesk/internal/http/middleware"
	"freightdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// CarrierHandler serves carrier validation.
type CarrierHandler struct {
	Svc services.CarrierService
}

// GET /api/v1/carriers/validate/:mc_number
func (h CarrierHandler) Validate(c *gin.Context) {
	svc := h.Svc
	svc.RequestID = middleware.GetRequestID(c)

	resp, err := svc.Validate(c.Request.Context(), c.Param("mc_number"))
	if err != nil {
		respondCarrierError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
