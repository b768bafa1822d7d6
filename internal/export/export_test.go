package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/visitdesk/internal/models"
)

func TestPageOffsets(t *testing.T) {
	tests := []struct {
		name    string
		content float64
		page    float64
		want    []float64
	}{
		{"shorter than a page", 100, 297, []float64{0}},
		{"exactly one page", 297, 297, []float64{0}},
		{"two and a half pages", 742.5, 297, []float64{0, -297, -594}},
		{"empty", 0, 297, []float64{0}},
		{"bad page height", 500, 0, []float64{0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tc.want, PageOffsets(tc.content, tc.page), 1e-9)
		})
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		img.Set(y%w, y, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderImage_PaginatesTallContent(t *testing.T) {
	// 210mm wide at 100px means 2.1mm per pixel; 400px is 840mm, just under three pages.
	doc, err := imageDocument(testPNG(t, 100, 400))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())

	var out bytes.Buffer
	require.NoError(t, RenderImage(&out, testPNG(t, 100, 50)))
	assert.True(t, strings.HasPrefix(out.String(), "%PDF"))
}

func TestRenderImage_RejectsBadInput(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, RenderImage(&out, nil), ErrEmptyImage)
	assert.ErrorIs(t, RenderImage(&out, []byte("not a png")), ErrBadImage)
}

func TestRenderTable(t *testing.T) {
	visits := make([]models.Visit, 0, 120)
	for i := 1; i <= 120; i++ {
		visits = append(visits, models.Visit{
			ID:         i,
			UserID:     3,
			DoctorName: "Dr. Wanjiru",
			Location:   "Kenyatta National Hospital, Nairobi",
			VisitDate:  models.NewTimestamp(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
			Notes:      strings.Repeat("follow-up on samples ", 5),
		})
	}
	table := VisitsTable("All visits", visits, time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC))
	require.Len(t, table.Rows, 120)
	assert.Equal(t, "2025-03-01 09:00", table.Rows[0][4])

	doc := tableDocument(table)
	require.False(t, doc.Err(), "%v", doc.Error())
	assert.Greater(t, doc.PageCount(), 1)

	var out bytes.Buffer
	require.NoError(t, RenderTable(&out, table))
	assert.True(t, strings.HasPrefix(out.String(), "%PDF"))
}

func TestRenderTable_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderTable(&out, ReportsTable("Reports", nil, time.Time{})))
	assert.True(t, strings.HasPrefix(out.String(), "%PDF"))
}

func TestReportsTable_MissingDates(t *testing.T) {
	table := ReportsTable("Reports", []models.Report{{ID: 1, VisitID: 4, Title: "Q1", ReportText: "ok"}}, time.Time{})
	assert.Equal(t, []string{"1", "4", "Q1", "ok", "-"}, table.Rows[0])
}
