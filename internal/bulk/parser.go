// AngelaMos | 2026
// parser.go

package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/carterperez-dev/billforge/internal/core"
)

// ParseRows turns an uploaded spreadsheet into row records. The first
// line is the header; every later line becomes one Row keyed by header
// name. Empty input, an unreadable file, or more than maxRows data
// rows fail the whole submission.
func ParseRows(reader io.Reader, fileName string, maxRows int) ([]Row, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		records, err = readCSV(reader)
	case ".xlsx":
		records, err = readXLSX(reader)
	default:
		return nil, core.ValidationError(
			"unsupported file type: expected .csv or .xlsx",
		)
	}
	if err != nil {
		return nil, core.ValidationError(
			fmt.Sprintf("malformed input file: %v", err),
		)
	}

	if len(records) < 2 {
		return nil, core.ValidationError(
			"input file must contain a header row and at least one data row",
		)
	}

	header := records[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	dataRows := records[1:]
	if len(dataRows) > maxRows {
		return nil, core.ValidationError(
			fmt.Sprintf("input exceeds the %d row limit", maxRows),
		)
	}

	rows := make([]Row, 0, len(dataRows))
	for i, record := range dataRows {
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" {
				continue
			}
			if j < len(record) {
				fields[name] = strings.TrimSpace(record[j])
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, Row{Index: i, Fields: fields})
	}

	return rows, nil
}

func readCSV(reader io.Reader) ([][]string, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func readXLSX(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only workbook

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}
