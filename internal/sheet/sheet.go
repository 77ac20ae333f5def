package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Client reads the invoice data range and writes status markers back, all
// against one spreadsheet tab.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	tab           string
	dataRange     string
	statusCol     string
}

// NewClient wires a Sheets service to one spreadsheet. statusColumn is the
// zero-based index of the status column within the sheet (9 for column J).
func NewClient(svc *sheets.Service, spreadsheetID, tab, dataRange string, statusColumn int) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		tab:           tab,
		dataRange:     dataRange,
		statusCol:     ColumnLetter(statusColumn),
	}
}

// FetchRows reads the whole data range in one request and returns the rows as
// cell strings plus the absolute 1-based row number of the first returned row.
func (c *Client) FetchRows(ctx context.Context) ([][]string, int, error) {
	rangeRef := fmt.Sprintf("%s!%s", c.tab, c.dataRange)

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("FetchRows: get %s: %w", rangeRef, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}

	return rows, StartRow(c.dataRange), nil
}

// WriteStatus overwrites the status cell of the given absolute row with text.
// The write uses USER_ENTERED so the value lands exactly as if typed into the
// cell. There is no read-before-write; a concurrent edit loses.
func (c *Client) WriteStatus(ctx context.Context, rowNumber int, text string) error {
	cellRef := fmt.Sprintf("%s!%s%d", c.tab, c.statusCol, rowNumber)

	body := &sheets.ValueRange{
		Values: [][]interface{}{{text}},
	}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRef, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("WriteStatus: update %s: %w", cellRef, err)
	}

	return nil
}

// StartRow derives the absolute row number of the first data row from the
// range reference, e.g. "A2:J" starts at row 2. An unparseable reference
// falls back to 2, matching a sheet with a single header row.
func StartRow(dataRange string) int {
	start := dataRange
	if idx := strings.Index(dataRange, ":"); idx != -1 {
		start = dataRange[:idx]
	}

	var digits strings.Builder
	for _, r := range start {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n < 1 {
		return 2
	}
	return n
}

// ColumnLetter converts a zero-based column index into its A1-notation
// letters (0 → "A", 25 → "Z", 26 → "AA").
func ColumnLetter(index int) string {
	if index < 0 {
		return "A"
	}
	var letters []byte
	for index >= 0 {
		letters = append([]byte{byte('A' + index%26)}, letters...)
		index = index/26 - 1
	}
	return string(letters)
}
