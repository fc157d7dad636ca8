package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"freightdesk/internal/domain"
	"freightdesk/internal/domain/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVLoadRepository reads the load dataset from disk. The file is re-read on
// every lookup so edits show up without a restart.
type CSVLoadRepository struct {
	Path string
}

// FindByReference returns the first row whose reference_number equals ref exactly.
func (r CSVLoadRepository) FindByReference(ctx context.Context, ref string) (models.LoadRow, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if v, ok := row[models.ColReferenceNumber]; ok && v == ref {
			return row, nil
		}
	}
	return nil, domain.NotFound("Load not found: " + ref)
}

func (r CSVLoadRepository) readAll(ctx context.Context) ([]models.LoadRow, error) {
	raw, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.New(domain.KindServiceUnavailable, "Load data file not available")
		}
		return nil, domain.Wrap(domain.KindServiceUnavailable, "Load data file not available", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parseLoadCSV(raw)
}

// parseLoadCSV mirrors what a dataframe reader accepts: the first record is the
// header, short rows leave trailing columns absent, long rows are malformed.
// A quote only opens a quoted field at the start of a cell, so `48" pipe` is
// read literally.
func parseLoadCSV(raw []byte) ([]models.LoadRow, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.New(domain.KindServiceUnavailable, "Load data file is empty")
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, parseError(err)
	}
	if !slices.Contains(header, models.ColReferenceNumber) {
		return nil, parseError(fmt.Errorf("header has no %s column", models.ColReferenceNumber))
	}
	lastLine, lastCol := reader.FieldPos(len(header) - 1)

	var rows []models.LoadRow
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		if len(rec) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, parseError(fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec)))
		}
		lastLine, lastCol = reader.FieldPos(len(rec) - 1)
		row := make(models.LoadRow, len(rec))
		for i, v := range rec {
			row[header[i]] = v
		}
		rows = append(rows, row)
	}
	if unterminatedQuote(raw, lastLine, lastCol) {
		return nil, parseError(fmt.Errorf("line %d: quoted field never closed", lastLine))
	}
	return rows, nil
}

// unterminatedQuote reports whether the field starting at line:col (1-based)
// opens a quote that the file never closes. Lazy quoting folds such a field
// into the rest of the file, so it can only be the last field read.
func unterminatedQuote(raw []byte, line, col int) bool {
	start := 0
	for i := 1; i < line; i++ {
		nl := bytes.IndexByte(raw[start:], '\n')
		if nl < 0 {
			return false
		}
		start += nl + 1
	}
	off := start + col - 1
	if off < 0 || off >= len(raw) || raw[off] != '"' {
		return false
	}
	rest := bytes.TrimRight(raw[off+1:], " \t\r\n")
	return !bytes.HasSuffix(rest, []byte{'"'})
}

func parseError(err error) error {
	return domain.Wrap(domain.KindServiceUnavailable, "Error parsing load data file", err)
}
