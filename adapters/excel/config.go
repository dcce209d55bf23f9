package excel

// ReaderConfig holds configuration for reading uploaded tables
type ReaderConfig struct {
	// Delimiter separates fields in .csv and .txt files; .tsv always uses tab.
	Delimiter rune `json:"delimiter" yaml:"delimiter"`
	// SheetName selects a workbook sheet; empty means the first sheet.
	SheetName string `json:"sheet_name" yaml:"sheet_name"`
	// MaxBytes rejects larger inputs; zero disables the check.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
}

// DefaultReaderConfig returns comma-delimited, first-sheet defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter: ',',
		MaxBytes:  32 << 20,
	}
}
