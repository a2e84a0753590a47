package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/gartstein/hiring/internal/hiring/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestApplicantsWorkbook(t *testing.T) {
	posting := &models.JobPosting{
		ID:       uuid.New(),
		Title:    "Backend Engineer",
		Location: "Berlin",
		PostedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	questions := []models.JobAppQuestion{
		{ID: uuid.New(), Prompt: "Years of Go?", Kind: models.Number},
		{ID: uuid.New(), Prompt: "Can relocate?", Kind: models.YesNo},
	}
	resume := "s3://resumes/ada.pdf"
	rows := []ApplicantRow{
		{
			Application: models.Application{
				ID:        uuid.New(),
				ResumeRef: &resume,
				AppliedOn: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
				Status:    models.StatusInterview,
			},
			Username: "ada",
			Email:    "ada@example.com",
			Answers: map[string]string{
				questions[0].ID.String(): "7",
				questions[1].ID.String(): "yes",
			},
		},
		{
			Application: models.Application{ID: uuid.New(), Status: models.StatusApplied},
			Username:    "grace",
		},
	}

	data, err := ApplicantsWorkbook(posting, questions, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, ApplicantsSheet}, f.GetSheetList())

	title, err := f.GetCellValue(SummarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", title)

	total, err := f.GetCellValue(SummarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	sheet, err := f.GetRows(ApplicantsSheet)
	require.NoError(t, err)
	require.Len(t, sheet, 3)
	assert.Equal(t, []string{"Applicant", "Email", "Status", "Applied on", "Resume", "Cover letter", "Notes", "Years of Go?", "Can relocate?"}, sheet[0])
	assert.Equal(t, []string{"ada", "ada@example.com", "Interview", "2024-03-02", resume, "", "", "7", "yes"}, sheet[1])
	assert.Equal(t, "grace", sheet[2][0])
	assert.Equal(t, "Applied", sheet[2][2])
}

func TestApplicantsWorkbookWithoutApplicants(t *testing.T) {
	data, err := ApplicantsWorkbook(&models.JobPosting{Title: "Empty"}, nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet, err := f.GetRows(ApplicantsSheet)
	require.NoError(t, err)
	assert.Len(t, sheet, 1)
}
