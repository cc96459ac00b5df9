package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the on-disk layouts of the ECDICT dataset
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatSQLite             // ecdict-sqlite release, stardict table
	FormatCSV                // ecdict.csv release
)

// FormatInfo contains metadata about a dataset file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatSQLite: {
		Format:      FormatSQLite,
		Description: "ECDICT SQLite database",
		Extensions:  []string{".db", ".sqlite", ".sqlite3"},
		MinSize:     512, // smallest possible page
	},
	FormatCSV: {
		Format:      FormatCSV,
		Description: "ECDICT CSV",
		Extensions:  []string{".csv"},
		MinSize:     4, // "word"
	},
}

var sqliteMagic = []byte("SQLite format 3\x00")

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := GetFormatInfo(expectedFormat)
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	switch expectedFormat {
	case FormatSQLite:
		return validateSQLiteHeader(filename)
	case FormatCSV:
		return validateCSVHeader(filename)
	}
	return nil
}

func validateSQLiteHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(file, header); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if !bytes.Equal(header, sqliteMagic) {
		return fmt.Errorf("%s is not a SQLite database", filename)
	}

	log.Debugf("SQLite file %s validated", filename)
	return nil
}

func validateCSVHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, 1024)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read from csv file %s: %w", filename, err)
	}
	first, _, _ := strings.Cut(string(buffer[:n]), "\n")
	if !strings.Contains(strings.ToLower(first), "word") {
		return fmt.Errorf("csv file %s has no word column in its header", filename)
	}

	log.Debugf("CSV file %s validated", filename)
	return nil
}

// DetectFileFormat picks the format from the extension and checks the file
// against it.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range ListSupportedFormats() {
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := ValidateFileFormat(filename, info.Format); err != nil {
				return FormatUnknown, err
			}
			return info.Format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats in a stable order
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].Format < formats[j].Format })
	return formats
}

// SupportedExtensions lists every extension OpenStore accepts.
func SupportedExtensions() []string {
	var exts []string
	for _, info := range ListSupportedFormats() {
		exts = append(exts, info.Extensions...)
	}
	return exts
}

// OpenStore opens the dataset at path with the backend its format needs.
func OpenStore(path string) (Store, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	var store Store
	switch format {
	case FormatSQLite:
		store, err = OpenSQLite(path)
	case FormatCSV:
		store, err = OpenCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
