package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/alwell-health/alwell/internal/assistant"
	"github.com/alwell-health/alwell/internal/healthdata"
	"github.com/alwell-health/alwell/internal/profiles"
	"github.com/alwell-health/alwell/internal/snapshot"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportData is everything a rendered report contains
type ReportData struct {
	GeneratedAt time.Time
	Profile     *profiles.UserProfile
	Snapshot    snapshot.Snapshot
}

// metricRow is one line of the metrics table
type metricRow struct {
	Label     string
	Value     string
	Unit      string
	UpdatedAt string
}

var metricHeader = []string{"metric", "value", "unit", "updated_at"}

func buildRows(s snapshot.Snapshot) []metricRow {
	updated := func(m healthdata.Metric) string {
		if t, ok := s.UpdatedAt[m]; ok {
			return t.UTC().Format(time.RFC3339)
		}
		return ""
	}
	num := func(v float64) string { return fmt.Sprintf("%.1f", v) }

	return []metricRow{
		{"Heart Rate", num(s.HeartRate), "BPM", updated(healthdata.MetricHeartRate)},
		{"Steps", num(s.StepCount), "steps", updated(healthdata.MetricStepCount)},
		{"Sleep", fmt.Sprintf("%dh %dm", s.Sleep.Hours, s.Sleep.Minutes), "", updated(healthdata.MetricSleepHours)},
		{"Weight", num(s.Weight), "lbs", updated(healthdata.MetricWeight)},
		{"Calories Burned", num(s.CaloriesBurned), "kcal", updated(healthdata.MetricCaloriesBurned)},
		{"Exercise Minutes", num(s.ExerciseMinutes), "min", updated(healthdata.MetricExerciseMinutes)},
		{"Respiratory Rate", num(s.RespiratoryRate), "breaths/min", updated(healthdata.MetricRespiratoryRate)},
		{"Cardio Fitness VO2", num(s.CardioVO2), "mL/kg/min", updated(healthdata.MetricCardioVO2)},
	}
}

func profileLines(data ReportData) []string {
	return strings.Split(assistant.BuildProfileContext(data.Profile, data.GeneratedAt), "\n")
}

// Render renders the report in the requested format
func Render(format string, data ReportData) ([]byte, error) {
	switch format {
	case FormatPDF:
		return renderPDF(data)
	case FormatCSV:
		return renderCSV(data)
	case FormatXLSX:
		return renderXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}

func renderCSV(data ReportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(metricHeader); err != nil {
		return nil, err
	}
	for _, row := range buildRows(data.Snapshot) {
		if err := w.Write([]string{row.Label, row.Value, row.Unit, row.UpdatedAt}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Alwell Health Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated: "+data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Profile")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, line := range profileLines(data) {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Health Data")
	pdf.Ln(8)

	widths := []float64{55, 35, 30, 60}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range []string{"Metric", "Value", "Unit", "Updated"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range buildRows(data.Snapshot) {
		updated := row.UpdatedAt
		if updated == "" {
			updated = "-"
		}
		pdf.CellFormat(widths[0], 6, row.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, row.Value, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, row.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, updated, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(data ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const metricsSheet = "Health Data"
	const profileSheet = "Profile"

	index, err := f.NewSheet(metricsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(profileSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range metricHeader {
		if err := setCellValue(f, metricsSheet, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(metricsSheet, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(metricsSheet, "A", "D", 22); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, row := range buildRows(data.Snapshot) {
		r := i + 2
		for col, value := range []string{row.Label, row.Value, row.Unit, row.UpdatedAt} {
			if err := setCellValue(f, metricsSheet, col+1, r, value); err != nil {
				return nil, err
			}
		}
	}

	for i, line := range profileLines(data) {
		label, value, _ := strings.Cut(line, ": ")
		if err := setCellValue(f, profileSheet, 1, i+1, label); err != nil {
			return nil, err
		}
		if err := setCellValue(f, profileSheet, 2, i+1, value); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCellValue(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
