package services

import (
	"context"
	"strings"

	"freightdesk/internal/domain"
	"freightdesk/internal/domain/models"
	"freightdesk/internal/utils"

	"go.uber.org/zap"
)

const genericFailure = "An unexpected error occurred while processing your request"

// RegistryClient fetches the carrier section for a normalized MC number.
// Implementations return *domain.Error for every expected failure.
type RegistryClient interface {
	FetchCarrier(ctx context.Context, mcNumber string) (models.RegistryCarrier, error)
}

// CarrierService validates MC numbers against the carrier registry.
type CarrierService struct {
	Registry  RegistryClient
	APIKey    string
	Log       *zap.Logger
	RequestID string
}

// Validate normalizes raw, looks the carrier up and builds the response.
// Errors are always *domain.Error.
func (s CarrierService) Validate(ctx context.Context, raw string) (models.CarrierResponse, error) {
	resp, err := s.validate(ctx, raw)
	if err == nil {
		return resp, nil
	}
	if _, ok := domain.As(err); ok {
		return models.CarrierResponse{}, err
	}
	utils.OrNop(s.Log).Error("unexpected carrier validation error",
		zap.String("request_id", s.RequestID),
		zap.Error(err),
	)
	return models.CarrierResponse{}, domain.Internal(genericFailure, err)
}

func (s CarrierService) validate(ctx context.Context, raw string) (models.CarrierResponse, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return models.CarrierResponse{}, domain.New(domain.KindServiceMisconfigured, "FMCSA API key not configured")
	}
	if raw == "" {
		return models.CarrierResponse{}, domain.InvalidInput("MC number is required")
	}

	mc := NormalizeMCNumber(raw)
	if !utils.IsDigits(mc) {
		return models.CarrierResponse{}, domain.InvalidInput("Invalid MC number format. Must contain only digits after removing 'MC-' prefix")
	}

	utils.LogEvent(s.Log, s.RequestID, "carrier", "validate", "mc_number="+mc)
	rc, err := s.Registry.FetchCarrier(ctx, mc)
	if err != nil {
		return models.CarrierResponse{}, err
	}

	record, err := buildCarrierRecord(rc, mc)
	if err != nil {
		return models.CarrierResponse{}, err
	}

	return models.CarrierResponse{
		Success: true,
		Data: models.CarrierData{
			Carrier:         record,
			TransferContact: nil,
			NextSteps:       models.NewNextSteps(record.CarrierName),
		},
	}, nil
}

// NormalizeMCNumber upper-cases raw, drops every "MC-" and trims whitespace.
func NormalizeMCNumber(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(raw), "MC-", ""))
}

func buildCarrierRecord(rc models.RegistryCarrier, mc string) (models.CarrierRecord, error) {
	// The trade name only stands in when legalName was not sent at all.
	name := rc.LegalName
	if !rc.HasLegalName {
		name = rc.DBAName
	}
	if name == "" || rc.DOTNumber == "" {
		return models.CarrierRecord{}, domain.New(domain.KindUpstreamIncompleteData, "Incomplete carrier data received from FMCSA API")
	}

	authorized := rc.AllowedToOperate == "Y"
	status := domain.CarrierInactive
	if authorized {
		status = domain.CarrierActive
	}

	return models.CarrierRecord{
		CarrierID:    rc.DOTNumber,
		Status:       status,
		CarrierName:  name,
		DOTNumber:    rc.DOTNumber,
		MCNumber:     mc,
		StatusReason: statusReason(rc.OOSDate != "", authorized),
	}, nil
}

// statusReason gives out-of-service precedence over the authorization flag.
func statusReason(outOfService, authorized bool) *string {
	var reason string
	switch {
	case outOfService:
		reason = domain.ReasonOutOfService
	case !authorized:
		reason = domain.ReasonNotAuthorized
	default:
		return nil
	}
	return &reason
}
