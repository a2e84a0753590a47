// Package export renders the applicants of a job posting as an Excel workbook.
package export

import (
	"fmt"
	"time"

	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	ApplicantsSheet = "Applicants"
)

// ApplicantRow is one application with the applicant's identity and answers.
type ApplicantRow struct {
	Application models.Application
	Username    string
	Email       string
	Answers     map[string]string // keyed by question id
}

// statusColors shades the status cell of each applicant row.
var statusColors = map[models.Status]string{
	models.StatusApplied:   "DDEBF7",
	models.StatusInterview: "FFEB9C",
	models.StatusOffer:     "C6EFCE",
	models.StatusRejected:  "FFC7CE",
}

// ApplicantsWorkbook builds a workbook with a summary sheet and one row per
// applicant, answers in questionnaire order.
func ApplicantsWorkbook(posting *models.JobPosting, questions []models.JobAppQuestion, rows []ApplicantRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ApplicantsSheet); err != nil {
		return nil, err
	}

	if err := writeSummary(f, posting, rows); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeApplicants(f, questions, rows); err != nil {
		return nil, fmt.Errorf("failed to create applicants sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, posting *models.JobPosting, rows []ApplicantRow) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.MergeCell(SummarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "A1", posting.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", titleStyle); err != nil {
		return err
	}

	counts := make(map[models.Status]int)
	for _, row := range rows {
		counts[row.Application.Status]++
	}
	lines := [][]interface{}{
		{"Location", posting.Location},
		{"Posted", posting.PostedAt.Format(time.DateOnly)},
		{"Applications", len(rows)},
		{models.StatusApplied.String(), counts[models.StatusApplied]},
		{models.StatusInterview.String(), counts[models.StatusInterview]},
		{models.StatusOffer.String(), counts[models.StatusOffer]},
		{models.StatusRejected.String(), counts[models.StatusRejected]},
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &line); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, cell, cell, labelStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 20)
}

func writeApplicants(f *excelize.File, questions []models.JobAppQuestion, rows []ApplicantRow) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	header := []interface{}{"Applicant", "Email", "Status", "Applied on", "Resume", "Cover letter", "Notes"}
	for _, q := range questions {
		header = append(header, q.Prompt)
	}
	if err := f.SetSheetRow(ApplicantsSheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ApplicantsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	statusStyles := make(map[models.Status]int, len(statusColors))
	for status, color := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		statusStyles[status] = style
	}

	for i, row := range rows {
		app := row.Application
		values := []interface{}{
			row.Username,
			row.Email,
			app.Status.String(),
			app.AppliedOn.Format(time.DateOnly),
			deref(app.ResumeRef),
			deref(app.CoverLetterRef),
			app.Notes,
		}
		for _, q := range questions {
			values = append(values, row.Answers[q.ID.String()])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ApplicantsSheet, cell, &values); err != nil {
			return err
		}
		if style, ok := statusStyles[app.Status]; ok {
			statusCell, _ := excelize.CoordinatesToCellName(3, i+2)
			if err := f.SetCellStyle(ApplicantsSheet, statusCell, statusCell, style); err != nil {
				return err
			}
		}
	}
	return f.SetPanes(ApplicantsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
