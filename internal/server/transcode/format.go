// Package transcode converts contact records to and from the CSV and JSON
// interchange files. It performs no I/O beyond the supplied readers and
// writers.
package transcode

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
)

type Format string

const (
	FormatUnknown Format = ""
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
)

// ContentType is the media type served for an exported file.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Record is one contact in an interchange file. Missing fields are empty.
type Record struct {
	Name  string
	Phone string
	Email string
	Notes string

	// Line locates a parsed record in its source: the line it starts on in
	// a CSV file, its 1-based position in a JSON contacts array. Writers
	// ignore it.
	Line int
}

// ParseFormat validates an export format requested by a client.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return FormatUnknown, fmt.Errorf("%w: invalid format", common.ErrInvalidInput)
}

// FormatForFilename picks the format from the file extension.
func FormatForFilename(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	}
	return FormatUnknown
}

// Filename names an export of the given group: contacts-<group>-<date>.<ext>.
func Filename(groupName string, f Format, now time.Time) string {
	return fmt.Sprintf("contacts-%s-%s.%s", groupName, now.Format(time.DateOnly), f)
}
