package invoice

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one normalized invoice derived from a sheet row. It lives for a
// single batch pass; the only durable trace of a processed Record is the
// status cell written back and the email actually delivered.
type Record struct {
	Client        string
	Email         string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string // no due-date column in the sheet, kept for layout
	Description   string
	Amount        float64
	Currency      string
	RawPrice      string // price cell as read, kept for the digit check
	RawStatus     string
}

// ColumnMap holds the zero-based column index of each field in the data range.
type ColumnMap struct {
	Date          int `yaml:"date"`
	FullName      int `yaml:"full_name"`
	NIC           int `yaml:"nic"`
	ContactNumber int `yaml:"contact_number"`
	Email         int `yaml:"email"`
	TicketPrice   int `yaml:"ticket_price"`
	TicketCount   int `yaml:"ticket_count"`
	TicketID      int `yaml:"ticket_id"`
	TableNumber   int `yaml:"table_number"`
	Status        int `yaml:"status"`
}

// DefaultColumns returns the A..J layout of the ticket sales sheet.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		Date:          0,
		FullName:      1,
		NIC:           2,
		ContactNumber: 3,
		Email:         4,
		TicketPrice:   5,
		TicketCount:   6,
		TicketID:      7,
		TableNumber:   8,
		Status:        9,
	}
}

// cell returns the trimmed value at index col, or def when the row is shorter
// than expected or the cell is blank. Rows fetched from the Sheets API drop
// trailing empty cells, so out-of-range reads are normal, not errors.
func cell(row []string, col int, def string) string {
	if col < 0 || col >= len(row) {
		return def
	}
	v := strings.TrimSpace(row[col])
	if v == "" {
		return def
	}
	return v
}

// ExtractAmount keeps only the decimal digits of a raw price cell and parses
// the result as a float. "5,000LKR" yields 5000; anything without a digit
// yields 0. Decimal separators are dropped with everything else, so "49.99"
// becomes 4999; the sheet records whole-currency prices.
func ExtractAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// HasAmount reports whether the raw price cell contains at least one digit.
// A digitless price is a validity failure even though ExtractAmount degrades
// it to zero.
func HasAmount(raw string) bool {
	return strings.ContainsAny(raw, "0123456789")
}

// ParseRow maps one sheet row onto a Record using the given column layout.
// Malformed input never fails: missing cells resolve to defaults and the
// invoice date falls back to now. Validity is judged later by Validate.
func ParseRow(row []string, cols ColumnMap, currency string, now time.Time) Record {
	price := cell(row, cols.TicketPrice, "0")

	date := cell(row, cols.Date, "")
	if date == "" {
		date = now.Format("2006-01-02")
	}

	return Record{
		Client:        cell(row, cols.FullName, ""),
		Email:         cell(row, cols.Email, ""),
		InvoiceNumber: cell(row, cols.TicketID, ""),
		InvoiceDate:   date,
		DueDate:       "",
		Description: fmt.Sprintf("Tickets: %s, Table: %s",
			cell(row, cols.TicketCount, ""), cell(row, cols.TableNumber, "")),
		Amount:    ExtractAmount(price),
		Currency:  currency,
		RawPrice:  price,
		RawStatus: cell(row, cols.Status, ""),
	}
}

// Validate reports why a Record is not processable, or nil when it is.
// The orchestrator treats a non-nil result as a skip, not a failure.
func (r Record) Validate() error {
	var missing []string
	if r.Client == "" {
		missing = append(missing, "client")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.InvoiceNumber == "" {
		missing = append(missing, "invoice number")
	}
	if !HasAmount(r.RawPrice) {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Filename is the attachment name for this record's PDF.
func (r Record) Filename() string {
	return fmt.Sprintf("Invoice_%s.pdf", r.InvoiceNumber)
}

// AlreadySent reports whether a status cell marks its row as processed.
// Matching is a case-insensitive prefix check so a marker like
// "SENT 2024-01-01 10:00:00" (or a hand-typed "sent") holds across runs.
func AlreadySent(status string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(status)), "SENT")
}

// StatusMarker formats the marker written back after a successful send.
func StatusMarker(now time.Time) string {
	return now.Format("SENT 2006-01-02 15:04:05")
}
