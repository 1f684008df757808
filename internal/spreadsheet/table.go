// Package spreadsheet handles the xlsx plumbing around bulk import and
// export: parsing uploads into a neutral table shape, writing filtered
// record exports, and generating the import template workbook.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/ports"
)

// Parser reads xlsx uploads into a ports.Table. It implements
// ports.TableParser.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the first sheet of an xlsx workbook. The first row is the
// header; subsequent rows become maps keyed by header name, with blank
// cells absent. Content that cannot be opened as a workbook, or a workbook
// without a header row, wraps domain.ErrMalformedUpload.
func (p *Parser) Parse(r io.Reader) (*ports.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedUpload, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMalformedUpload)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedUpload, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", domain.ErrMalformedUpload, sheet)
	}

	header := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		header = append(header, strings.TrimSpace(h))
	}

	table := &ports.Table{Columns: header}
	for _, cells := range rows[1:] {
		row := make(map[string]string, len(header))
		empty := true
		for i, col := range header {
			if col == "" || i >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[i])
			if v == "" {
				continue
			}
			row[col] = v
			empty = false
		}
		// GetRows pads the tail of a sheet with whatever rows once held
		// formatting; skip rows with no content at all.
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
