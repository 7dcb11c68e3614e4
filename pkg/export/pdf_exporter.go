package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// WeeklyGrid describes one printable planning week, hour rows by day
// columns. Cells hold the room name (person target) or the occupant name
// (room target); empty strings render as free slots.
type WeeklyGrid struct {
	Title    string
	Subtitle string
	Days     []string   // column headers, Monday first
	Hours    []string   // row headers, one per whole hour
	Cells    [][]string // Cells[hour][day]
}

// PDFExporter renders planning grids onto landscape letter pages, sized to
// be pinned on an office door.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderWeeklyGrid creates the weekly planning PDF.
func (e *PDFExporter) RenderWeeklyGrid(grid WeeklyGrid) ([]byte, error) {
	if len(grid.Days) == 0 || len(grid.Hours) == 0 {
		return nil, fmt.Errorf("weekly grid requires days and hours")
	}

	pdf := gofpdf.New("L", "in", "Letter", "")
	pdf.SetMargins(0.5, 0.6, 0.5)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 0.35, grid.Title, "", 1, "L", false, 0, "")
	if grid.Subtitle != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 0.3, grid.Subtitle, "", 1, "L", false, 0, "")
	}
	pdf.Ln(0.1)

	const hourColWidth = 0.7
	dayColWidth := (10.0 - hourColWidth) / float64(len(grid.Days))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(79, 70, 229)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(hourColWidth, 0.3, "Heure", "1", 0, "C", true, 0, "")
	for _, day := range grid.Days {
		pdf.CellFormat(dayColWidth, 0.3, day, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	for i, hour := range grid.Hours {
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(hourColWidth, 0.28, hour, "1", 0, "C", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		for j := range grid.Days {
			var value string
			if i < len(grid.Cells) && j < len(grid.Cells[i]) {
				value = grid.Cells[i][j]
			}
			pdf.CellFormat(dayColWidth, 0.28, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render weekly grid pdf: %w", err)
	}
	return buf.Bytes(), nil
}
