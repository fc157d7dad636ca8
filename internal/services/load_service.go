package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"freightdesk/internal/domain"
	"freightdesk/internal/domain/models"
	"freightdesk/internal/utils"

	"go.uber.org/zap"
)

const loadReferencePrefix = "LOAD"

// LoadDataSource returns the first dataset row for a reference number.
// Implementations return *domain.Error for missing/corrupt data and for no match.
type LoadDataSource interface {
	FindByReference(ctx context.Context, ref string) (models.LoadRow, error)
}

// LoadService looks freight loads up by reference number.
type LoadService struct {
	Source    LoadDataSource
	Log       *zap.Logger
	RequestID string
}

// GetLoad returns the load for ref. Errors are always *domain.Error.
func (s LoadService) GetLoad(ctx context.Context, ref string) (models.LoadResponse, error) {
	record, err := s.getLoad(ctx, ref)
	if err == nil {
		return models.LoadResponse{Success: true, Data: &record}, nil
	}
	if _, ok := domain.As(err); ok {
		return models.LoadResponse{}, err
	}
	utils.OrNop(s.Log).Error("unexpected load lookup error",
		zap.String("request_id", s.RequestID),
		zap.String("reference_number", ref),
		zap.Error(err),
	)
	return models.LoadResponse{}, domain.Internal(genericFailure, err)
}

// LoadRecord is GetLoad without the response envelope.
func (s LoadService) LoadRecord(ctx context.Context, ref string) (models.LoadRecord, error) {
	resp, err := s.GetLoad(ctx, ref)
	if err != nil {
		return models.LoadRecord{}, err
	}
	return *resp.Data, nil
}

func (s LoadService) getLoad(ctx context.Context, ref string) (models.LoadRecord, error) {
	if !strings.HasPrefix(ref, loadReferencePrefix) {
		return models.LoadRecord{}, domain.InvalidInput("Invalid reference number format. Must start with 'LOAD'")
	}

	utils.LogEvent(s.Log, s.RequestID, "load", "get", "reference_number="+ref)
	row, err := s.Source.FindByReference(ctx, ref)
	if err != nil {
		return models.LoadRecord{}, err
	}
	return recordFromRow(row)
}

func recordFromRow(row models.LoadRow) (models.LoadRecord, error) {
	values := make(map[string]string, len(models.RequiredLoadColumns))
	var missing []string
	for _, col := range models.RequiredLoadColumns {
		v, ok := row.Value(col)
		if !ok {
			missing = append(missing, col)
			continue
		}
		values[col] = v
	}
	if len(missing) > 0 {
		return models.LoadRecord{}, domain.Internal("Missing required fields in load data: "+strings.Join(missing, ", "), nil)
	}

	rate, err := parseRate(values[models.ColRate])
	if err != nil {
		return models.LoadRecord{}, domain.Internal("Error processing load data: "+err.Error(), err)
	}

	return models.LoadRecord{
		ReferenceNumber: values[models.ColReferenceNumber],
		Origin:          values[models.ColOrigin],
		Destination:     values[models.ColDestination],
		EquipmentType:   values[models.ColEquipmentType],
		Rate:            rate,
		Commodity:       values[models.ColCommodity],
	}, nil
}

func parseRate(raw string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert rate to float: %q", raw)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("rate is not a finite number: %q", raw)
	}
	return rate, nil
}
