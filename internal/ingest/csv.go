package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"retailpulse/pkg/contracts/domain"
)

// utf8BOM is the byte order mark spreadsheet tools prepend to CSV exports.
const utf8BOM = "\xEF\xBB\xBF"

// loadCSV parses delimited text into a raw table. The first record is the
// header row. Records with a deviating field count make the file unreadable;
// a silently misaligned table would corrupt every downstream column lookup.
func (l *Loader) loadCSV(r io.Reader) (domain.Table, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err == io.EOF {
		return domain.Table{}, fmt.Errorf("%w: file is empty", ErrUnreadableFile)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		rows = append(rows, record)
	}

	return domain.Table{Headers: headers, Rows: rows}, nil
}
