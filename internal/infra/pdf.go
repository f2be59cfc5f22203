package infra

// pdf.go — order confirmation summary generation using go-pdf/fpdf.
// Produces an A5 sheet with the order number and date, an item table
// (product name, quantity, unit price, subtotal) and a bold total.
// The output file is saved to storagePath/pedido_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// LineaResumen is one item of the order summary.
type LineaResumen struct {
	Nombre         string
	Cantidad       int
	PrecioUnitario decimal.Decimal
}

// PedidoResumen collects everything the confirmation PDF renders.
type PedidoResumen struct {
	NumeroPedido string
	Fecha        time.Time
	Cliente      string
	Tipo         string
	Lineas       []LineaResumen
	Total        decimal.Decimal
}

// GeneratePedidoPDF writes the order confirmation PDF and returns its path.
// storagePath is created if needed.
func GeneratePedidoPDF(resumen *PedidoResumen, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("pedido_%s.pdf", strings.ReplaceAll(resumen.NumeroPedido, "/", "-"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Kraken Store", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Confirmación de Pedido", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Order info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Pedido "+resumen.NumeroPedido, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, resumen.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if resumen.Cliente != "" {
		pdf.CellFormat(contentW, 5, "Cliente: "+resumen.Cliente, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product name
	col2 := contentW * 0.14 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.20 // subtotal

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, linea := range resumen.Lineas {
		nombre := linea.Nombre
		if len(nombre) > 30 {
			nombre = nombre[:29] + "…"
		}
		subtotal := linea.PrecioUnitario.Mul(decimal.NewFromInt(int64(linea.Cantidad)))
		pdf.CellFormat(col1, 6, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", linea.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+linea.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+resumen.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "¡Gracias por tu compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
