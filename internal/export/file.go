package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coursereview/internal/domain"
	"coursereview/internal/errors"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatXML Format = "xml"
)

// ParseFormat accepts "csv" or "xml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXML:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", errors.NewValidationError("format", s, "must be csv or xml")
	}
}

// FormatForPath picks the format from a file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return FormatXML
	}
	return FormatCSV
}

// Write encodes courses in the given format.
func Write(w io.Writer, format Format, generation uint64, courses []domain.Course) error {
	switch format {
	case FormatXML:
		return WriteXML(w, generation, courses)
	case FormatCSV, "":
		return WriteCSV(w, courses)
	default:
		return errors.NewValidationError("format", string(format), "must be csv or xml")
	}
}

// WriteFile writes the export to outPath, creating parent directories.
func WriteFile(outPath string, format Format, generation uint64, courses []domain.Course) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO("write", dir, err)
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errors.WrapIO("write", outPath, err)
	}
	if err := Write(f, format, generation, courses); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return errors.WrapIO("write", outPath, f.Close())
}
