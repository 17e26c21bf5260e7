package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gradebook/domain/student"
	apperrors "gradebook/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataWriter persists the student table by full rewrite
type DataWriter struct {
	filePath  string
	fileType  fileType
	sheetName string
	fileMode  os.FileMode
}

// NewDataWriter creates a writer for the configured file
func NewDataWriter(config ExcelConfig) (*DataWriter, error) {
	ft, err := detectFileType(config.FilePath)
	if err != nil {
		return nil, err
	}
	sheet := config.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	mode := os.FileMode(config.FileMode)
	if mode == 0 {
		mode = 0o644
	}
	return &DataWriter{filePath: config.FilePath, fileType: ft, sheetName: sheet, fileMode: mode}, nil
}

// WriteTable replaces the file with header plus table. The new content is
// written to a temp file in the same directory and renamed over the
// original, so readers see either the old file or the new one. Every
// failure is a STORAGE_WRITE error.
func (w *DataWriter) WriteTable(table student.Table) error {
	dir := filepath.Dir(w.filePath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.filePath)+".tmp-*")
	if err != nil {
		return apperrors.StorageWrite(w.filePath, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
				log.Printf("[DataWriter] Failed to remove temp file %s: %v", tmpName, err)
			}
		}
	}()

	switch w.fileType {
	case fileTypeCSV:
		err = encodeCSV(tmp, table)
	default:
		err = w.encodeExcel(tmp, table)
	}
	if err != nil {
		return apperrors.StorageWrite(w.filePath, err)
	}

	if err := tmp.Chmod(w.fileMode); err != nil {
		return apperrors.StorageWrite(w.filePath, err)
	}
	if err := tmp.Sync(); err != nil {
		return apperrors.StorageWrite(w.filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.StorageWrite(w.filePath, err)
	}
	if err := os.Rename(tmpName, w.filePath); err != nil {
		return apperrors.StorageWrite(w.filePath, err)
	}
	committed = true
	return nil
}

// encodeExcel writes a single-sheet workbook. Marks are numeric cells and
// roll numbers stay text.
func (w *DataWriter) encodeExcel(out io.Writer, table student.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if defaultSheet != w.sheetName {
		if err := f.SetSheetName(defaultSheet, w.sheetName); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", w.sheetName, err)
		}
	}

	header := make([]interface{}, len(student.Header))
	for i, h := range student.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(w.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{rec.Name, rec.RollNumber, rec.Class, rec.Marks}
		if err := f.SetSheetRow(w.sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

func encodeCSV(out io.Writer, table student.Table) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(student.Header); err != nil {
		return err
	}
	for _, rec := range table {
		if err := cw.Write([]string{rec.Name, rec.RollNumber, rec.Class, strconv.Itoa(rec.Marks)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
