package receipt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"dollardash/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Printer renders cash-on-delivery slips. The QR code carries
// orderID|total|signature so a rider can check the amount to collect.
type Printer struct {
	secret []byte
}

func NewPrinter(secret string) *Printer {
	return &Printer{secret: []byte(secret)}
}

func (p *Printer) sign(data string) string {
	h := hmac.New(sha256.New, p.secret)
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Payload returns the signed QR payload for o.
func (p *Printer) Payload(o models.Order) string {
	data := fmt.Sprintf("%s|%d", o.ID, o.Total)
	return fmt.Sprintf("%s|%s", data, p.sign(data))
}

// Verify checks a payload produced by Payload.
func (p *Printer) Verify(payload string) bool {
	i := strings.LastIndex(payload, "|")
	if i < 0 {
		return false
	}
	want := p.sign(payload[:i])
	return hmac.Equal([]byte(want), []byte(payload[i+1:]))
}

// Render builds the PDF slip for o.
func (p *Printer) Render(o models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(p.Payload(o), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "DollarDash - Cash on Delivery")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order: %s", o.ID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Placed: %s", time.UnixMilli(o.Timestamp).UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, "Deliver to")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{o.Customer.Name, o.Customer.Phone, o.Customer.Address, o.Customer.City} {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range o.Items {
		pdf.CellFormat(110, 7, tr(truncate(it.Name, 60)), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprint(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprint(it.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprint(it.LineTotal()), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(155, 9, "Amount to collect", "T", 0, "R", false, 0, "")
	pdf.CellFormat(25, 9, fmt.Sprint(o.Total), "T", 1, "R", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
