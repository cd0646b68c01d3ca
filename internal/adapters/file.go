package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/icon-pbg/icon-go/internal/database"
)

// maxXLSRows bounds legacy workbook reads.
const maxXLSRows = 100000

// FileSource reads a CSV, XLSX or XLS file from disk.
type FileSource struct {
	path  string
	sheet string
}

// NewFileSource creates a file source. Sheet selects a worksheet in XLSX
// files; blank means the first sheet.
func NewFileSource(path, sheet string) *FileSource {
	return &FileSource{path: path, sheet: sheet}
}

// Name returns the file path.
func (f *FileSource) Name() string {
	return f.path
}

// Fetch reads the whole file.
func (f *FileSource) Fetch(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	return ReadSpreadsheet(file, f.path, f.sheet)
}

// ReadSpreadsheet reads rows from r, choosing the format by the file
// extension of filename.
func ReadSpreadsheet(r io.Reader, filename, sheet string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".txt":
		return database.ReadRows(r)
	case ".xlsx", ".xlsm":
		return readXLSX(r, sheet)
	case ".xls":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return readXLS(data)
	default:
		return nil, fmt.Errorf("%w: file type %q", ErrUnsupportedSource, ext)
	}
}

func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := sheet
	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	// Raw values keep dates as serial numbers instead of the workbook's
	// display format, which may be month-first.
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %q is empty", sheetName)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}
	return rows, nil
}
