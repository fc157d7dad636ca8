package handlers

import (
	"freightdesk/internal/domain"
	"freightdesk/internal/http/middleware"
	"freightdesk/internal/metrics"

	"github.com/gin-gonic/gin"
)

const genericFailure = "An unexpected error occurred while processing your request"

// CarrierErrorResponse is the error body of the carrier endpoints.
type CarrierErrorResponse struct {
	Success   bool   `json:"success"`
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// LoadErrorResponse is the error body of the load endpoints; it keeps the
// LoadResponse shape with data null.
type LoadErrorResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Code      string  `json:"code"`
	RequestID string  `json:"request_id,omitempty"`
}

// describe resolves the status, kind and caller-safe message of err. Errors
// outside the domain taxonomy never leak their text.
func describe(err error) (int, domain.Kind, string) {
	kind := domain.KindOf(err)
	msg := genericFailure
	if e, ok := domain.As(err); ok && e.Msg != "" {
		msg = e.Msg
	}
	return domain.StatusCode(kind), kind, msg
}

func respondCarrierError(c *gin.Context, err error) {
	status, kind, msg := describe(err)
	metrics.LookupErrors.WithLabelValues("carrier", string(kind)).Inc()
	_ = c.Error(err)
	c.JSON(status, CarrierErrorResponse{
		Success:   false,
		Detail:    msg,
		Code:      string(kind),
		RequestID: middleware.GetRequestID(c),
	})
}

func respondLoadError(c *gin.Context, err error) {
	status, kind, msg := describe(err)
	metrics.LookupErrors.WithLabelValues("load", string(kind)).Inc()
	_ = c.Error(err)
	c.JSON(status, LoadErrorResponse{
		Success:   false,
		Data:      nil,
		Error:     &msg,
		Code:      string(kind),
		RequestID: middleware.GetRequestID(c),
	})
}
