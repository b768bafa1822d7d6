package export

import (
	"strconv"
	"time"

	"github.com/tajious/visitdesk/internal/models"
)

func VisitsTable(title string, visits []models.Visit, generatedAt time.Time) Table {
	t := Table{
		Title:       title,
		GeneratedAt: generatedAt,
		Columns:     []string{"ID", "User ID", "Doctor Name", "Location", "Visit Date", "Notes"},
		Rows:        make([][]string, 0, len(visits)),
	}
	for _, v := range visits {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(v.ID),
			strconv.Itoa(v.UserID),
			v.DoctorName,
			v.Location,
			formatDate(v.VisitDate),
			v.Notes,
		})
	}
	return t
}

func ReportsTable(title string, reports []models.Report, generatedAt time.Time) Table {
	t := Table{
		Title:       title,
		GeneratedAt: generatedAt,
		Columns:     []string{"ID", "Visit ID", "Title", "Report", "Created"},
		Rows:        make([][]string, 0, len(reports)),
	}
	for _, r := range reports {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.VisitID),
			r.Title,
			r.ReportText,
			formatDate(r.CreatedAt),
		})
	}
	return t
}

func formatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("2006-01-02 15:04")
}
