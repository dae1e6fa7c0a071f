// Package dataset loads CSV and Excel files into profiling datasets
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "statadvisor/domain/profiling"
	"statadvisor/internal"
	"statadvisor/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Format is the file format of an uploaded dataset
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName picks the format from a file name extension; anything that
// is not .csv is treated as a workbook.
func FormatFromName(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// Reader reads CSV and XLSX data. Cells stay strings; the profiler does all
// type inference.
type Reader struct {
	logger *internal.Logger
	sheet  string
}

// NewReader creates a reader. An empty sheet reads the workbook's first sheet.
func NewReader(sheet string, logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{logger: logger.Named("dataset"), sheet: sheet}
}

// ReadFile reads a dataset from disk
func (r *Reader) ReadFile(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Dataset{}, errors.NotFound(fmt.Sprintf("dataset file %s", path))
		}
		return domain.Dataset{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return r.Read(f, FormatFromName(path))
}

// Read reads a dataset in the given format
func (r *Reader) Read(src io.Reader, format Format) (domain.Dataset, error) {
	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(src)
	case FormatXLSX:
		rows, err = r.readWorkbook(src)
	default:
		return domain.Dataset{}, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", format))
	}
	if err != nil {
		return domain.Dataset{}, err
	}

	ds, err := buildDataset(rows)
	if err != nil {
		return domain.Dataset{}, err
	}
	r.logger.Debug("%s read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(format)), float64(time.Since(start).Nanoseconds())/1e6, len(ds.Columns), ds.Len())
	return ds, nil
}

func readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV: %w", err))
	}
	return rows, nil
}

func (r *Reader) readWorkbook(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %s: %w", sheet, err))
	}
	return rows, nil
}

// buildDataset turns a header row plus data rows into a Dataset. Blank or
// repeated headers get positional names; short rows are padded with empty cells.
func buildDataset(rows [][]string) (domain.Dataset, error) {
	if len(rows) < 2 {
		return domain.Dataset{}, errors.InvalidInput("file must have at least a header row and one data row")
	}

	seen := make(map[string]bool)
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" || seen[name] {
			for n := i + 1; ; n++ {
				name = fmt.Sprintf("column_%d", n)
				if !seen[name] {
					break
				}
			}
		}
		seen[name] = true
		headers[i] = name
	}

	data := make([]domain.Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		if isBlank(raw) {
			continue
		}
		row := make(domain.Row, len(headers))
		for j, name := range headers {
			cell := ""
			if j < len(raw) {
				cell = strings.TrimSpace(raw[j])
			}
			row[name] = cell
		}
		data = append(data, row)
	}
	if len(data) == 0 {
		return domain.Dataset{}, errors.InvalidInput("file has no data rows")
	}

	return domain.Dataset{Columns: headers, Rows: data}, nil
}

func isBlank(raw []string) bool {
	for _, cell := range raw {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
