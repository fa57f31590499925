package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

func (m *model) exportReceipt() {
	r, err := engine.NewReceipt(m.flow, m.now())
	if err != nil {
		m.exportStatus = "no-order"
		return
	}
	dir := m.cfg.ReceiptsDir
	if err := os.MkdirAll(dir, 0o700); err != nil {
		m.exportStatus = "err-mkdir"
		m.log.Error("receipt dir", zap.String("dir", dir), zap.Error(err))
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("receipt_%s.pdf", r.Order))
	if err := writeReceiptPDF(r, path); err != nil {
		m.exportStatus = "err-write"
		m.log.Error("receipt export", zap.String("path", path), zap.Error(err))
		return
	}
	m.exportStatus = path
	m.log.Info("receipt exported", zap.String("path", path))
}

// writeReceiptPDF lays the order summary out on a single A5 page.
func writeReceiptPDF(r engine.Receipt, path string) error {
	pdf := gofpdf.New("P", "pt", "A5", "")
	const margin = 36.0
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFillColor(12, 10, 9)
	pdf.Rect(0, 0, pageW, pageH, "F")

	pdf.SetTextColor(34, 211, 238)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin, 22, "Comet 3I/ATLAS Residences", "", 1, "C", false, 0, "")
	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(pageW-2*margin, 14, "Deposit Receipt", "", 1, "C", false, 0, "")

	pdf.SetDrawColor(34, 211, 238)
	pdf.SetLineWidth(0.75)
	y := pdf.GetY() + 10
	pdf.Line(margin, y, pageW-margin, y)
	pdf.SetY(y + 12)

	labelW := 130.0
	valueW := pageW - 2*margin - labelW
	for _, line := range r.Lines() {
		pdf.SetX(margin)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(165, 243, 252)
		pdf.CellFormat(labelW, 16, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(229, 231, 235)
		pdf.MultiCell(valueW, 16, line[1], "", "L", false)
	}

	pdf.SetY(pageH - margin - 30)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.MultiCell(pageW-2*margin, 11,
		"Further instructions regarding the consciousness transfer will be sent to your neuro-link shortly.",
		"", "C", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return nil
}
