package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"freightdesk/internal/domain"
	"freightdesk/internal/domain/models"
	"freightdesk/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// DocsService renders load documents as PDF.
type DocsService struct {
	Loads     LoadService
	Log       *zap.Logger
	RequestID string
	// Loader overrides Loads, mainly for tests.
	Loader func(ctx context.Context, ref string) (models.LoadRecord, error)
	Now    func() time.Time
}

// GenerateRateConfirmation returns the PDF bytes and a download file name.
func (s DocsService) GenerateRateConfirmation(ctx context.Context, ref string) ([]byte, string, error) {
	load, err := s.loadRecord(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.Log, s.RequestID, "docs", "rate_confirmation", "reference_number="+load.ReferenceNumber)

	pdf, err := buildRateConfirmationPDF(load, s.now())
	if err != nil {
		utils.OrNop(s.Log).Error("rate confirmation render failed",
			zap.String("request_id", s.RequestID),
			zap.Error(err),
		)
		return nil, "", domain.Internal(genericFailure, err)
	}
	return pdf, fmt.Sprintf("RATECON_%s.pdf", utils.SafeFilenamePart(load.ReferenceNumber)), nil
}

func (s DocsService) loadRecord(ctx context.Context, ref string) (models.LoadRecord, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ref)
	}
	loads := s.Loads
	loads.RequestID = s.RequestID
	return loads.LoadRecord(ctx, ref)
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func buildRateConfirmationPDF(d models.LoadRecord, issued time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Rate Confirmation "+d.ReferenceNumber, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RATE CONFIRMATION")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference      : %s", safe(d.ReferenceNumber, "-")),
		fmt.Sprintf("Issued (UTC)   : %s", utils.FormatDateTime(issued)),
		fmt.Sprintf("Origin         : %s", safe(d.Origin, "-")),
		fmt.Sprintf("Destination    : %s", safe(d.Destination, "-")),
		fmt.Sprintf("Equipment      : %s", safe(d.EquipmentType, "-")),
		fmt.Sprintf("Commodity      : %s", safe(d.Commodity, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Linehaul rate: "+utils.FormatUSD(d.Rate))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This confirmation reflects the posted load details at the time of issue. Rates are subject to carrier verification before dispatch.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
