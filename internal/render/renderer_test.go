package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/skylineglobal/invoice-mailer/internal/config"
	"github.com/skylineglobal/invoice-mailer/internal/invoice"
)

var testBusiness = config.Business{
	Name:    "Skyline Global (Pvt) Ltd.",
	Address: "No. 17/B | Minuwanpitiya Road, Panadura. 12500",
	Email:   "info.skylineglobal@gmail.com",
	Phone:   "+94 77 123 4567",
}

var testRecord = invoice.Record{
	Client:        "Jane Doe",
	Email:         "jane@example.com",
	InvoiceNumber: "TCK-001",
	InvoiceDate:   "2024-05-01",
	Description:   "Tickets: 2, Table: T3",
	Amount:        5000,
	Currency:      "LKR",
}

// tinyPNG encodes a 2x2 image so the happy logo path uses real PNG bytes.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRender_WithoutLogo(t *testing.T) {
	r := New(testBusiness, nil, "PNG")

	pdf, logoDrawn, err := r.Render(testRecord)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if logoDrawn {
		t.Error("logoDrawn = true, want false with no logo configured")
	}
	if len(pdf) == 0 {
		t.Fatal("Render produced no bytes")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header: %q", pdf[:8])
	}
}

func TestRender_WithLogo(t *testing.T) {
	r := New(testBusiness, tinyPNG(t), "PNG")

	pdf, logoDrawn, err := r.Render(testRecord)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !logoDrawn {
		t.Error("logoDrawn = false, want true with a valid PNG logo")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRender_BadLogoDegrades(t *testing.T) {
	r := New(testBusiness, []byte("not an image at all"), "PNG")

	pdf, logoDrawn, err := r.Render(testRecord)
	if err != nil {
		t.Fatalf("Render failed: %v, want degraded success", err)
	}
	if logoDrawn {
		t.Error("logoDrawn = true, want false for unparseable logo bytes")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("degraded render did not produce a PDF")
	}
}

func TestRender_EmptyDescriptionFallback(t *testing.T) {
	rec := testRecord
	rec.Description = ""

	r := New(testBusiness, nil, "PNG")
	pdf, _, err := r.Render(rec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Render produced no bytes")
	}
}
