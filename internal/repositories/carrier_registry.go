package repositories

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/domain/models"
	"freightdesk/internal/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// FMCSARegistry looks carriers up in the FMCSA QCMobile API. One attempt per
// call, bounded by the client timeout.
type FMCSARegistry struct {
	client *resty.Client
	apiKey string
}

func NewFMCSARegistry(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *FMCSARegistry {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if log != nil {
		client.SetLogger(redactingLogger{log: log.Sugar(), secret: apiKey})
	}
	return &FMCSARegistry{client: client, apiKey: apiKey}
}

// FetchCarrier returns the carrier section for a normalized MC number. Every
// failure is a *domain.Error with its final kind.
func (r *FMCSARegistry) FetchCarrier(ctx context.Context, mcNumber string) (models.RegistryCarrier, error) {
	started := time.Now()
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("mc", mcNumber).
		SetQueryParam("webKey", r.apiKey).
		Get("{mc}")
	if err != nil {
		if isTimeout(err) {
			metrics.ObserveRegistryCall("timeout", started)
			return models.RegistryCarrier{}, domain.Wrap(domain.KindUpstreamTimeout, "FMCSA API request timed out", err)
		}
		metrics.ObserveRegistryCall("unavailable", started)
		return models.RegistryCarrier{}, &domain.Error{
			Kind: domain.KindUpstreamUnavailable,
			Msg:  "Error connecting to FMCSA API: " + redactedCause(err),
		}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		metrics.ObserveRegistryCall("not_found", started)
		return models.RegistryCarrier{}, domain.NotFound(fmt.Sprintf("Carrier with MC number %s not found", mcNumber))
	case code == http.StatusUnauthorized:
		metrics.ObserveRegistryCall("unauthorized", started)
		return models.RegistryCarrier{}, domain.New(domain.KindUpstreamAuthFailure, "Invalid FMCSA API key")
	case code != http.StatusOK:
		metrics.ObserveRegistryCall("http_error", started)
		return models.RegistryCarrier{}, domain.New(domain.KindUpstreamError, fmt.Sprintf("FMCSA API error: %d", code))
	}

	metrics.ObserveRegistryCall("ok", started)
	return parseCarrierBody(resp.Body(), mcNumber)
}

func parseCarrierBody(body []byte, mcNumber string) (models.RegistryCarrier, error) {
	if !gjson.ValidBytes(body) {
		return models.RegistryCarrier{}, domain.New(domain.KindUpstreamBadResponse, "Invalid JSON response from FMCSA API")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return models.RegistryCarrier{}, domain.New(domain.KindUpstreamBadResponse, "Invalid JSON response from FMCSA API")
	}

	carrier := root.Get("content.carrier")
	if !present(root.Get("content")) || !present(carrier) {
		return models.RegistryCarrier{}, domain.NotFound("No carrier data found for MC number: " + mcNumber)
	}

	return models.RegistryCarrier{
		LegalName:        text(carrier.Get("legalName")),
		HasLegalName:     carrier.Get("legalName").Exists(),
		DBAName:          text(carrier.Get("dbaName")),
		DOTNumber:        text(carrier.Get("dotNumber")),
		AllowedToOperate: text(carrier.Get("allowedToOperate")),
		OOSDate:          text(carrier.Get("oosDate")),
	}, nil
}

// present follows JSON truthiness: null, false, 0, "" and empty containers are absent.
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsObject() {
			return len(r.Map()) > 0
		}
		return len(r.Array()) > 0
	default:
		return false
	}
}

// text flattens a scalar to its string form; absent values become "".
func text(r gjson.Result) string {
	if !present(r) {
		return ""
	}
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return r.String()
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// redactedCause drops the request URL, which carries the API key.
func redactedCause(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}

// redactingLogger adapts zap to resty's logger and masks the API key, which
// resty would otherwise print as part of failed request URLs.
type redactingLogger struct {
	log    *zap.SugaredLogger
	secret string
}

func (l redactingLogger) Errorf(format string, v ...interface{}) { l.log.Error(l.mask(format, v)) }
func (l redactingLogger) Warnf(format string, v ...interface{})  { l.log.Warn(l.mask(format, v)) }
func (l redactingLogger) Debugf(format string, v ...interface{}) { l.log.Debug(l.mask(format, v)) }

func (l redactingLogger) mask(format string, v []interface{}) string {
	msg := fmt.Sprintf(format, v...)
	if l.secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, l.secret, "***")
}
