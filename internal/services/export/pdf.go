// Package export renders submitted cases as printable summary sheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/oncolane/caseboard/internal/models"
)

// CaseSummaryPDF builds a one-page case summary for board handouts.
func CaseSummaryPDF(rec *models.CaseRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Case: %s", rec.CaseName), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("Submitted %s", rec.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Patient", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Name: %s", rec.PatientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Age: %d    Sex: %s", rec.PatientAge, rec.PatientSex), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Cancer type: %s", rec.CancerType), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if rec.Notes != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Notes", "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, rec.Notes, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Documents (%d)", len(rec.Attachments)), "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, att := range rec.Attachments {
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s (%s)", att.Position+1, att.FileName, att.FileType), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render case summary: %w", err)
	}
	return buf.Bytes(), nil
}
