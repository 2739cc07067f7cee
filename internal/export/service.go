// Package export serializes the company registry for download, as csv or as
// an xlsx workbook.
package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/ccisvision/vision/internal/domain"
	"github.com/ccisvision/vision/internal/repository"

	"github.com/xuri/excelize/v2"
)

// Format selects the serialization of an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a client supplied format value. Empty defaults to csv.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return Format(raw), nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

var exportHeaders = []string{
	"raison_sociale", "ice", "email", "telephone", "adresse", "ville",
	"secteur", "forme_juridique", "capital", "effectif", "date_creation", "score_qualite",
}

// Service builds registry exports.
type Service struct {
	store repository.Store
}

// NewService wires the export service to the store.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Organizations serializes every registry company in the requested format and
// returns the payload with its content type.
func (s *Service) Organizations(ctx context.Context, format Format) ([]byte, string, error) {
	orgs, err := s.store.Organizations().List(ctx)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatXLSX:
		payload, err := writeXLSX(orgs)
		return payload, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		payload, err := writeCSV(orgs)
		return payload, "text/csv; charset=utf-8", err
	}
}

func writeCSV(orgs []domain.Organization) ([]byte, error) {
	var buf bytes.Buffer
	buffered := bufio.NewWriter(&buf)
	csvWriter := csv.NewWriter(buffered)

	if err := csvWriter.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	for _, org := range orgs {
		if err := csvWriter.Write(exportRecord(org)); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXLSX(orgs []domain.Organization) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Entreprises"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for i, org := range orgs {
		record := exportRecord(org)
		row := make([]any, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address export row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRecord(org domain.Organization) []string {
	capital := ""
	if org.Capital != nil {
		capital = strconv.FormatFloat(*org.Capital, 'f', -1, 64)
	}
	employees := ""
	if org.Employees != nil {
		employees = strconv.Itoa(*org.Employees)
	}
	registered := ""
	if org.RegistrationDate != nil {
		registered = org.RegistrationDate.Format(time.DateOnly)
	}
	return []string{
		org.Name,
		org.TaxID,
		org.Email,
		org.Phone,
		org.Address,
		org.City,
		org.Sector,
		org.LegalForm,
		capital,
		employees,
		registered,
		strconv.Itoa(org.QualityScore),
	}
}
