// Package xlsx parses spreadsheet uploads into import rows. Parsing is
// strictly structural: value validation against attribute types happens in
// the batch service, where errors are collected per stage.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nkhrm/salary-policy-backend/internal/domain"
)

// Reader turns an uploaded workbook into rows keyed by technical attribute
// key. employeeKeyHeader is the column header carrying the employee identity
// (configurable, defaults to the Vietnamese CCCD header).
type Reader struct {
	employeeKeyHeader string
	maxRows           int
}

// NewReader creates a reader. maxRows bounds the accepted row count.
func NewReader(employeeKeyHeader string, maxRows int) *Reader {
	return &Reader{
		employeeKeyHeader: employeeKeyHeader,
		maxRows:           maxRows,
	}
}

// Sheet is the parsed content of the first worksheet.
type Sheet struct {
	// Headers holds the non-identity column headers in sheet order, with
	// surrounding whitespace trimmed.
	Headers []string
	// Rows holds one entry per data line. Values are keyed by header.
	Rows []domain.ImportRow
}

// Parse reads the first worksheet. The first row is the header row; every
// following row becomes an ImportRow. A row with a blank identity cell and no
// other values is skipped as trailing noise.
func (r *Reader) Parse(src io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := make([]string, len(rows[0]))
	keyCol := -1
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
		if strings.EqualFold(headers[i], r.employeeKeyHeader) {
			keyCol = i
		}
	}
	if keyCol == -1 {
		return nil, fmt.Errorf("identity column %q not found in header row", r.employeeKeyHeader)
	}

	if len(rows)-1 > r.maxRows {
		return nil, fmt.Errorf("sheet has %d rows, limit is %d", len(rows)-1, r.maxRows)
	}

	sheet := &Sheet{}
	for i, h := range headers {
		if i == keyCol || h == "" {
			continue
		}
		sheet.Headers = append(sheet.Headers, h)
	}

	for lineIdx, cells := range rows[1:] {
		row := domain.ImportRow{
			Line:   lineIdx + 2, // 1-based, after the header row
			Values: map[string]string{},
		}
		empty := true
		for i, h := range headers {
			v := ""
			if i < len(cells) {
				v = strings.TrimSpace(cells[i])
			}
			if v != "" {
				empty = false
			}
			if i == keyCol {
				row.EmployeeKey = v
				continue
			}
			if h == "" {
				continue
			}
			row.Values[h] = v
		}
		if empty {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}
