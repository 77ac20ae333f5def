// Package render produces the fixed-layout, single-page invoice PDF.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/skylineglobal/invoice-mailer/internal/config"
	"github.com/skylineglobal/invoice-mailer/internal/invoice"
)

const (
	margin = 18.0 // mm
	logoW  = 30.0
	logoH  = 20.0
)

// Renderer draws invoices for one business identity. The logo is optional;
// when its bytes fail to register as an image the document is still produced
// and Render reports the logo as absent.
type Renderer struct {
	business config.Business
	logo     []byte
	logoType string
}

// New creates a Renderer. logo may be nil; logoType is the image-type label
// ("PNG", "JPG", "GIF") for the logo bytes.
func New(business config.Business, logo []byte, logoType string) *Renderer {
	return &Renderer{business: business, logo: logo, logoType: logoType}
}

// Render lays out one A4 page for the record and returns the PDF bytes.
// logoDrawn reports whether the logo made it onto the page.
func (r *Renderer) Render(rec invoice.Record) (pdf []byte, logoDrawn bool, err error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	width, height := doc.GetPageSize()

	x := margin
	right := width - margin

	logoDrawn = r.drawLogo(doc)

	// Business block, left.
	doc.SetFont("Helvetica", "B", 14)
	doc.Text(x, margin+25, r.business.Name)
	doc.SetFont("Helvetica", "", 10)
	doc.Text(x, margin+30, r.business.Address)
	doc.Text(x, margin+35, fmt.Sprintf("Email: %s | Phone: %s", r.business.Email, r.business.Phone))

	// Title and invoice metadata, right.
	doc.SetFont("Helvetica", "B", 16)
	textRight(doc, right, margin+25, "INVOICE")
	doc.SetFont("Helvetica", "", 10)
	textRight(doc, right, margin+32, "Invoice No: "+rec.InvoiceNumber)
	textRight(doc, right, margin+37, "Invoice Date: "+rec.InvoiceDate)
	textRight(doc, right, margin+42, "Due Date: "+rec.DueDate)

	// Bill-to block.
	doc.SetFont("Helvetica", "B", 12)
	doc.Text(x, margin+50, "Bill To")
	doc.SetFont("Helvetica", "", 10)
	doc.Text(x, margin+56, rec.Client)
	doc.Text(x, margin+61, rec.Email)

	// Line-item headers.
	doc.SetFont("Helvetica", "B", 11)
	doc.Text(x, margin+72, "Description")
	doc.Text(right-40, margin+72, "Amount")

	// Single line item.
	desc := rec.Description
	if desc == "" {
		desc = "Services rendered"
	}
	amount := fmt.Sprintf("%s %.2f", rec.Currency, rec.Amount)
	doc.SetFont("Helvetica", "", 10)
	doc.Text(x, margin+80, desc)
	textRight(doc, right, margin+80, amount)

	// Total.
	doc.SetFont("Helvetica", "B", 12)
	textRight(doc, right, margin+90, "Total: "+amount)

	// Footer at the bottom margin.
	doc.SetFont("Helvetica", "I", 9)
	doc.Text(x, height-margin, "Thank you for your business!")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, false, fmt.Errorf("Render: pdf output: %w", err)
	}
	return buf.Bytes(), logoDrawn, nil
}

// drawLogo places the logo in the top-left corner. Bad image bytes are probed
// on a scratch document first so they cannot poison the real one; any failure
// degrades to an invoice without a logo.
func (r *Renderer) drawLogo(doc *gofpdf.Fpdf) bool {
	if len(r.logo) == 0 {
		return false
	}

	opt := gofpdf.ImageOptions{ImageType: r.logoType}

	scratch := gofpdf.New("P", "mm", "A4", "")
	scratch.RegisterImageOptionsReader("logo", opt, bytes.NewReader(r.logo))
	if scratch.Err() {
		return false
	}

	doc.RegisterImageOptionsReader("logo", opt, bytes.NewReader(r.logo))
	doc.ImageOptions("logo", margin, margin, logoW, logoH, false, opt, 0, "")
	return true
}

func textRight(doc *gofpdf.Fpdf, xRight, y float64, s string) {
	doc.Text(xRight-doc.GetStringWidth(s), y, s)
}
