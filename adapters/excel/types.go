package excel

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fileType identifies the on-disk encoding of the backing file
type fileType string

const (
	fileTypeXLSX fileType = "xlsx"
	fileTypeCSV  fileType = "csv"
)

// detectFileType maps a path's extension to a supported encoding
func detectFileType(path string) (fileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return fileTypeXLSX, nil
	case ".csv":
		return fileTypeCSV, nil
	default:
		return "", fmt.Errorf("unsupported data file extension %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}
