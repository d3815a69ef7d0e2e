package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Tenders"

var exportHeader = []interface{}{"ID", "Title", "Buyer", "Province", "Budget", "Deadline", "Uploaded At", "Summary"}

// ExportService renders the tender list as a spreadsheet.
type ExportService interface {
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type exportService struct {
	tenders TenderService
}

func NewExportService(tenders TenderService) ExportService {
	return &exportService{tenders: tenders}
}

func (s *exportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	items, err := s.tenders.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("set header: %w", err)
	}

	for i, item := range items {
		budget := ""
		if item.Budget != nil {
			budget = strconv.FormatFloat(*item.Budget, 'f', 2, 64)
		}
		deadline := ""
		if item.Deadline != nil {
			deadline = item.Deadline.Format("2006-01-02")
		}

		row := []interface{}{
			item.ID, item.Title, item.Buyer, item.Province, budget, deadline,
			item.UploadedAt.Format("2006-01-02 15:04:05"), item.Summary,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("set row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
