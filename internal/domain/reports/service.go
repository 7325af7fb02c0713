package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"timeclock/internal/domain/calendar"
	"timeclock/internal/domain/core"
)

// CalendarBuilder is the slice of the calendar service the report
// needs. Note the 0-indexed month on Month.
type CalendarBuilder interface {
	Month(ctx context.Context, companyID, userID string, year, month int) (calendar.Result, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, companyID, userID string) (core.User, error)
}

type Service struct {
	Calendar CalendarBuilder
	Users    UserDirectory
	Dir      string
}

func NewService(cal CalendarBuilder, users UserDirectory, dir string) *Service {
	return &Service{Calendar: cal, Users: users, Dir: dir}
}

// MonthlyAttendancePDF renders one user's month sheet and returns the
// file path. The month argument here is 1-indexed (1 = January),
// unlike the calendar API.
func (s *Service) MonthlyAttendancePDF(ctx context.Context, companyID, userID string, year, month int) (string, error) {
	user, err := s.Users.GetUser(ctx, companyID, userID)
	if err != nil {
		return "", err
	}

	result, err := s.Calendar.Month(ctx, companyID, userID, year, month-1)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.Dir, fmt.Sprintf("attendance-%s-%04d-%02d.pdf", userID, year, month))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", user.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %04d-%02d", year, month))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(28, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(45, 7, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(28, 7, "Expected", "1", 0, "", false, 0, "")
	pdf.CellFormat(28, 7, "Logged", "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, day := range result.Days {
		if day.IsOutsideMonth {
			continue
		}
		pdf.CellFormat(28, 6, day.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 6, string(day.Status), "1", 0, "", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%d min", day.ExpectedMinutes), "1", 0, "", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%d min", day.LoggedMinutes), "1", 1, "", false, 0, "")
	}

	summary := result.Summary
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Working days: %d   Worked: %d   Missing: %d", summary.WorkingDays, summary.DaysWorked, summary.DaysMissing))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Expected: %d min   Logged: %d min   Compliance: %d%%", summary.TotalExpectedMinutes, summary.TotalLoggedMinutes, summary.CompliancePercentage))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
