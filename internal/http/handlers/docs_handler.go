package handlers

import (
	"net/http"

	"freightdesk/internal/http/middleware"
	"freightdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// DocsHandler serves generated load documents.
type DocsHandler struct {
	Svc services.DocsService
}

// GET /api/v1/loads/:reference_number/rate-confirmation (inline PDF)
func (h DocsHandler) RateConfirmation(c *gin.Context) {
	svc := h.Svc
	svc.RequestID = middleware.GetRequestID(c)

	pdfBytes, filename, err := svc.GenerateRateConfirmation(c.Request.Context(), c.Param("reference_number"))
	if err != nil {
		respondLoadError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
