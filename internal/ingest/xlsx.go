package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"retailpulse/pkg/contracts/domain"
)

// loadXLSX parses a spreadsheet into a raw table. The first sheet carries
// the data; its first row is the header row. excelize returns ragged rows
// (trailing empty cells omitted), which the Table accessors tolerate.
func (l *Loader) loadXLSX(r io.Reader) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("%w: sheet %q is empty", ErrUnreadableFile, sheets[0])
	}

	return domain.Table{Headers: rows[0], Rows: rows[1:]}, nil
}
