package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	intconfig "freightdesk/internal/config"
	"freightdesk/internal/domain"
	"freightdesk/internal/domain/models"
	"freightdesk/internal/repositories"
	"freightdesk/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testLoads = "reference_number,origin,destination,equipment_type,rate,commodity\n" +
	"LOAD001,\"Chicago, IL\",\"Dallas, TX\",Dry Van,2500.00,Electronics\n" +
	"LOAD002,\"Atlanta, GA\",\"Miami, FL\",Reefer,,Produce\n"

type stubRegistry struct {
	carrier models.RegistryCarrier
	err     error
	calls   atomic.Int32
}

func (s *stubRegistry) FetchCarrier(_ context.Context, _ string) (models.RegistryCarrier, error) {
	s.calls.Add(1)
	return s.carrier, s.err
}

type stubSource struct {
	err error
}

func (s stubSource) FindByReference(context.Context, string) (models.LoadRow, error) {
	return nil, s.err
}

func newTestRouter(t *testing.T, reg services.RegistryClient) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, intconfig.LoadsFileName), []byte(testLoads), 0o600))
	env := intconfig.Env{
		RegistryAPIKey:     "k",
		RegistryTimeout:    time.Second,
		DataDir:            dir,
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
	}
	return newRouterWithSource(env, reg, repositories.CSVLoadRepository{Path: env.LoadsFile()})
}

func newRouterWithSource(env intconfig.Env, reg services.RegistryClient, src services.LoadDataSource) *gin.Engine {
	log := zap.NewNop()
	loads := services.LoadService{Source: src, Log: log}
	return NewRouter(env, log, Services{
		Carriers: services.CarrierService{Registry: reg, APIKey: env.RegistryAPIKey, Log: log},
		Loads:    loads,
		Docs:     services.DocsService{Loads: loads, Log: log},
	})
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestValidateCarrier_Success(t *testing.T) {
	reg := &stubRegistry{carrier: models.RegistryCarrier{
		LegalName: "ACME TRUCKING LLC", HasLegalName: true, DOTNumber: "1234567", AllowedToOperate: "Y",
	}}
	r := newTestRouter(t, reg)

	w := doGet(r, "/api/v1/carriers/validate/MC-123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	carrier := data["carrier"].(map[string]any)
	assert.Equal(t, "Active", carrier["status"])
	assert.Equal(t, "123456", carrier["mc_number"])
	assert.Equal(t, "1234567", carrier["carrier_id"])
	assert.Nil(t, carrier["status_reason"])
	assert.Contains(t, carrier, "status_reason")
	assert.Nil(t, data["transfer_contact"])
	assert.Contains(t, data, "transfer_contact")

	steps := data["next_steps"].(map[string]any)
	assert.Contains(t, steps["1"], "ACME TRUCKING LLC")
	sub := steps["2"].(map[string]any)
	assert.Len(t, sub, 4)
	assert.Contains(t, sub["a"], "ACME TRUCKING LLC")
}

func TestValidateCarrier_InvalidFormat(t *testing.T) {
	reg := &stubRegistry{}
	r := newTestRouter(t, reg)

	w := doGet(r, "/api/v1/carriers/validate/abc")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid_input", body["code"])
	assert.Contains(t, body["detail"], "Must contain only digits")
	assert.NotEmpty(t, body["request_id"])
	assert.Zero(t, reg.calls.Load())
}

func TestValidateCarrier_UpstreamErrorStatuses(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		{domain.New(domain.KindUpstreamTimeout, "FMCSA API request timed out"), http.StatusGatewayTimeout, "FMCSA API request timed out"},
		{domain.New(domain.KindUpstreamAuthFailure, "Invalid FMCSA API key"), http.StatusBadGateway, "Invalid FMCSA API key"},
		{domain.NotFound("Carrier with MC number 1 not found"), http.StatusNotFound, "Carrier with MC number 1 not found"},
		{domain.New(domain.KindUpstreamBadResponse, "Invalid JSON response from FMCSA API"), http.StatusBadGateway, "Invalid JSON response from FMCSA API"},
	}
	for _, tt := range tests {
		t.Run(tt.wantDetail, func(t *testing.T) {
			r := newTestRouter(t, &stubRegistry{err: tt.err})

			w := doGet(r, "/api/v1/carriers/validate/1")
			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDetail, decode(t, w)["detail"])
		})
	}
}

func TestValidateCarrier_UpstreamTimeoutThroughRealClient(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(upstream.Close)

	reg := repositories.NewFMCSARegistry(upstream.URL+"/", "k", 50*time.Millisecond, zap.NewNop())
	r := newTestRouter(t, reg)

	w := doGet(r, "/api/v1/carriers/validate/MC-123456")
	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "upstream_timeout", decode(t, w)["code"])
}

func TestGetLoad_Success(t *testing.T) {
	r := newTestRouter(t, &stubRegistry{})

	w := doGet(r, "/api/v1/loads/LOAD001")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["error"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Chicago, IL", data["origin"])
	assert.IsType(t, float64(0), data["rate"])
	assert.InDelta(t, 2500.0, data["rate"], 1e-9)
}

func TestGetLoad_Errors(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
		wantError  string
	}{
		{"/api/v1/loads/LOAD999", http.StatusNotFound, "Load not found: LOAD999"},
		{"/api/v1/loads/REF001", http.StatusBadRequest, "Invalid reference number format. Must start with 'LOAD'"},
		{"/api/v1/loads/LOAD002", http.StatusInternalServerError, "Missing required fields in load data: rate"},
	}
	r := newTestRouter(t, &stubRegistry{})

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doGet(r, tt.path)
			require.Equal(t, tt.wantStatus, w.Code)

			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Nil(t, body["data"])
			assert.Contains(t, body, "data")
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestGetLoad_DatasetUnavailable(t *testing.T) {
	env := intconfig.Env{RegistryAPIKey: "k", RegistryTimeout: time.Second, DataDir: t.TempDir()}
	r := newRouterWithSource(env, &stubRegistry{}, repositories.CSVLoadRepository{Path: env.LoadsFile()})

	w := doGet(r, "/api/v1/loads/LOAD001")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Load data file not available", decode(t, w)["error"])
}

func TestGetLoad_UnexpectedErrorIsNotLeaked(t *testing.T) {
	env := intconfig.Env{RegistryAPIKey: "k", RegistryTimeout: time.Second}
	r := newRouterWithSource(env, &stubRegistry{}, stubSource{err: assert.AnError})

	w := doGet(r, "/api/v1/loads/LOAD001")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "An unexpected error occurred while processing your request", body["error"])
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestRateConfirmation(t *testing.T) {
	r := newTestRouter(t, &stubRegistry{})

	w := doGet(r, "/api/v1/loads/LOAD001/rate-confirmation")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RATECON_LOAD001.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	w = doGet(r, "/api/v1/loads/LOAD999/rate-confirmation")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestSystemRoutes(t *testing.T) {
	r := newTestRouter(t, &stubRegistry{})

	w := doGet(r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["load_data"])

	w = doGet(r, "/api/routes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/carriers/validate/:mc_number")

	w = doGet(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "freightdesk_http_requests_total")

	w = doGet(r, "/api/v1/nothing")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route not found", decode(t, w)["detail"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := newTestRouter(t, &stubRegistry{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/loads/BAD", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", decode(t, w)["request_id"])
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, &stubRegistry{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/loads/LOAD001", nil)
	req.Header.Set("Origin", "https://broker.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryReturnsStructuredError(t *testing.T) {
	r := newTestRouter(t, &stubRegistry{})
	r.GET("/boom", func(*gin.Context) { panic("kaboom: internal detail") })

	w := doGet(r, "/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Equal(t, false, decode(t, w)["success"])
}
