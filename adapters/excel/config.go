package excel

// ExcelConfig holds configuration for the spreadsheet-backed store
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// SheetName names the worksheet of newly written xlsx files. Existing
	// files are always read from their first worksheet.
	SheetName string `json:"sheet_name"`
	// FileMode is applied to files the store creates.
	FileMode uint32 `json:"file_mode"`
}

// DefaultExcelConfig returns sensible defaults for the student data file
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FilePath:  "student_data.xlsx",
		SheetName: "Sheet1",
		FileMode:  0o644,
	}
}
