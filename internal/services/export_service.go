package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var exportHeaders = []string{
	"Attempt ID", "Learner ID", "Attempt Number", "Status",
	"Started At", "Completed At", "Time Spent (s)",
	"Overall Score", "Correct", "Total Questions",
}

func (s *exportService) ExportAttempts(ctx context.Context, kind models.AttemptKind, parentID uint, format ExportFormat) (*ExportResult, error) {
	parentFilter := parentID
	attempts, _, err := s.repo.Attempt().List(ctx, repositories.AttemptFilters{
		Kind:      kind,
		ParentID:  &parentFilter,
		Limit:     100,
		SortBy:    "created_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts for export: %w", err)
	}

	baseName := fmt.Sprintf("%s-%d-attempts-%s", kind, parentID, time.Now().Format("20060102"))

	switch format {
	case ExportFormatCSV:
		data, err := s.attemptsToCSV(attempts)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    baseName + ".csv",
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatXLSX, "":
		data, err := s.attemptsToExcel(attempts)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			FileName:    baseName + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, NewValidationError("format", "unsupported export format", string(format))
	}
}

func (s *exportService) attemptsToCSV(attempts []*models.Attempt) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, attempt := range attempts {
		if err := writer.Write(attemptToRow(attempt)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return []byte(buf.String()), nil
}

func (s *exportService) attemptsToExcel(attempts []*models.Attempt) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Attempts"

	// Rename the default sheet so the workbook holds a single sheet.
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for rowIndex, attempt := range attempts {
		for colIndex, value := range attemptToRow(attempt) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func attemptToRow(a *models.Attempt) []string {
	completedAt := ""
	if a.CompletedAt != nil {
		completedAt = a.CompletedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatUint(uint64(a.ID), 10),
		a.LearnerID,
		strconv.Itoa(a.AttemptNumber),
		string(a.Status),
		a.StartedAt.Format(time.RFC3339),
		completedAt,
		strconv.Itoa(a.TimeSpent),
		strconv.FormatFloat(a.OverallScore, 'f', 0, 64),
		strconv.Itoa(a.TotalCorrect),
		strconv.Itoa(a.TotalQuestions),
	}
}
