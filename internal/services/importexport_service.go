package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"leadtrack/internal/models"
	"leadtrack/internal/repositories"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"

	"github.com/xuri/excelize/v2"
)

const exportTimeLayout = "2006-01-02 15:04"

var exportColumns = []string{
	"Name", "Email", "Phone", "Status", "Source", "Tags", "Assigned To", "Created At",
}

type ImportExportService interface {
	Import(callerID string, r io.Reader) (*dto.ImportResult, error)
	Export(callerID string, callerRole models.UserRole, req *dto.LeadExportRequest) ([]byte, error)
}

type ImportExportServiceImpl struct {
	leadRepo repositories.LeadRepository
}

func NewImportExportService(leadRepo repositories.LeadRepository) ImportExportService {
	return &ImportExportServiceImpl{
		leadRepo: leadRepo,
	}
}

// Import reads an .xlsx file and creates a lead per row. Rows missing name or
// email are recorded with their sheet row number and skipped; a bad row never
// aborts the batch. Tag and assignment columns are ignored on import.
func (s *ImportExportServiceImpl) Import(callerID string, r io.Reader) (*dto.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewBadRequestError("File is not a valid spreadsheet")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to read spreadsheet rows")
	}

	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}

	for i, row := range rows {
		rowNum := i + 1

		// Tolerate a header row in the first position.
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if isEmptyRow(row) {
			continue
		}

		name := cellAt(row, 0)
		email := cellAt(row, 1)

		if name == "" || email == "" {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:     rowNum,
				Message: "name and email are required",
			})
			continue
		}

		status := models.LeadStatus(cellAt(row, 3))
		if !status.Valid() {
			status = models.LeadStatusNew
		}

		source := cellAt(row, 4)
		if source == "" {
			source = models.LeadSourceImport
		}

		lead := &models.Lead{
			Name:      name,
			Email:     email,
			Phone:     cellAt(row, 2),
			Status:    status,
			Source:    source,
			CreatedBy: callerID,
		}

		if err := s.leadRepo.Create(lead); err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row:     rowNum,
				Message: fmt.Sprintf("failed to save lead: %v", err),
			})
			continue
		}

		result.Imported++
	}

	return result, nil
}

// Export serializes every lead matching the filters (no pagination, no
// free-text search) to an .xlsx workbook.
func (s *ImportExportServiceImpl) Export(callerID string, callerRole models.UserRole, req *dto.LeadExportRequest) ([]byte, error) {
	filter, err := buildLeadFilter(
		req.Status, req.TagIDs, req.DateFrom, req.DateTo,
		req.AssignedTo, req.Source, "",
	)
	if err != nil {
		return nil, err
	}

	// The same role scope as listing: agents export only their own leads.
	if callerRole == models.UserRoleAgent {
		filter.AssignedTo = callerID
	}

	leads, err := s.leadRepo.FindAllWithFilter(*filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportColumns); err != nil {
		return nil, apperrors.InternalError(err)
	}

	for i, lead := range leads {
		tagNames := make([]string, 0, len(lead.Tags))
		for _, tag := range lead.Tags {
			tagNames = append(tagNames, tag.Name)
		}

		assignee := "Unassigned"
		if lead.Assignee != nil {
			assignee = lead.Assignee.Name
		}

		row := []interface{}{
			lead.Name,
			lead.Email,
			lead.Phone,
			string(lead.Status),
			lead.Source,
			strings.Join(tagNames, ", "),
			assignee,
			lead.CreatedAt.Local().Format(exportTimeLayout),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buf.Bytes(), nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isHeaderRow(row []string) bool {
	return strings.EqualFold(cellAt(row, 0), "name")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
