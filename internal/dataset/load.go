package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Load reads the table at path, choosing the reader by file extension.
func Load(path string, opts Options) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		records, err = readCSVFile(path, ',')
	case ".tsv":
		records, err = readCSVFile(path, '\t')
	case ".xlsx":
		records, err = ReadXLSX(path, opts.Sheet)
	default:
		return nil, Invalid("", 0, "unsupported table format %q (want .csv, .tsv or .xlsx)", ext)
	}
	if err != nil {
		return nil, err
	}

	t, err := Parse(records, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func readCSVFile(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, delim)
}

// ReadCSV loads delimited text into raw records, header row included.
// Every cell is kept as a string; numeric validation happens in Parse.
func ReadCSV(r io.Reader, delim rune) ([][]string, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(false),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, Invalid("", 0, "read csv: %v", df.Err)
	}

	// Records() prefixes the generated column names; drop them.
	records := df.Records()
	if len(records) < 2 {
		return nil, Invalid("", 0, "table has no header row")
	}
	return records[1:], nil
}

// ReadXLSX loads one worksheet into raw records, header row included.
// An empty sheet name selects the first sheet.
func ReadXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, Invalid("", 0, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, Invalid(sheet, 0, "read sheet: %v", err)
	}
	if len(rows) == 0 {
		return nil, Invalid(sheet, 0, "table has no header row")
	}

	// GetRows drops trailing empty cells; pad so Parse reports the empty
	// metric rather than a field-count mismatch.
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows, nil
}
