package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gradebook/domain/student"
	apperrors "gradebook/internal/errors"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader reads the student table from an xlsx or csv file
type DataReader struct {
	filePath string
	fileType fileType
}

// NewDataReader creates a reader; the encoding follows the file extension
func NewDataReader(filePath string) (*DataReader, error) {
	ft, err := detectFileType(filePath)
	if err != nil {
		return nil, err
	}
	return &DataReader{filePath: filePath, fileType: ft}, nil
}

// ReadTable reads and parses the whole file. Every failure is a
// STORAGE_READ error.
func (r *DataReader) ReadTable() (student.Table, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, apperrors.StorageRead(r.filePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case fileTypeCSV:
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, apperrors.StorageRead(r.filePath, err)
	}

	table, err := parseRows(rows)
	if err != nil {
		return nil, apperrors.StorageRead(r.filePath, err)
	}
	return table, nil
}

// readExcelRows reads every row of the first worksheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads every record of a csv file
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	// "CSV UTF-8" exports start with a byte order mark
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

// parseRows converts raw rows into records. Row 1 must be the header;
// wholly blank rows are skipped.
func parseRows(rows [][]string) (student.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if !student.HeaderMatches(rows[0]) {
		return nil, fmt.Errorf("unexpected header %q, want %q", rows[0], student.Header)
	}

	table := make(student.Table, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		if len(row) > len(student.Header) {
			if !isBlankRow(row[len(student.Header):]) {
				return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(student.Header))
			}
			row = row[:len(student.Header)]
		}
		for len(row) < len(student.Header) {
			row = append(row, "")
		}

		marks, err := parseMarksCell(row[3])
		if err != nil {
			cell, _ := excelize.CoordinatesToCellName(4, i+1)
			return nil, fmt.Errorf("cell %s: %w", cell, err)
		}

		table = append(table, student.Record{
			Name:       strings.TrimSpace(row[0]),
			RollNumber: strings.TrimSpace(row[1]),
			Class:      strings.TrimSpace(row[2]),
			Marks:      marks,
		})
	}
	return table, nil
}

// parseMarksCell accepts whole numbers, including float renderings such as "55.0"
func parseMarksCell(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("marks cell is empty")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("marks %q is not a number", raw)
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("marks %q is not a whole number", raw)
	}
	return int(v), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
