package documents

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// Layout is the field-placement template for the application form. It lives
// in object storage next to the artifacts so form changes do not require a
// deploy.
type Layout struct {
	Title  string  `json:"title"`
	Footer string  `json:"footer,omitempty"`
	Fields []Field `json:"fields"`
}

// Field places one labeled value on the page, in millimeters from the
// top-left corner.
type Field struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// LoadLayout parses a layout template file.
func LoadLayout(path string) (Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return Layout{}, fmt.Errorf("layout template: %w", err)
	}
	if len(l.Fields) == 0 {
		return Layout{}, fmt.Errorf("layout template: no fields")
	}
	return l, nil
}

// RenderForm writes a single-page PDF with each layout field filled from the
// values map. Fields without a value render with a blank line so the customer
// can complete them by hand.
func RenderForm(layout Layout, values map[string]string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(20, 20)
	pdf.CellFormat(170, 10, layout.Title, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, f := range layout.Fields {
		v, ok := values[f.Name]
		if !ok || v == "" {
			v = "____________________"
		}
		pdf.SetXY(f.X, f.Y)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", f.Label, v), "", 0, "L", false, 0, "")
	}

	if layout.Footer != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetXY(20, 280)
		pdf.CellFormat(170, 5, layout.Footer, "", 0, "C", false, 0, "")
	}

	return pdf.OutputFileAndClose(outPath)
}
