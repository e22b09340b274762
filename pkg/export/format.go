// Package export writes static renditions of roadmap graphs: SVG and PNG
// snapshots, Mermaid diagrams, JSON scene documents and a SQLite database
// of the whole dataset.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an export format.
type Format string

const (
	FormatSVG     Format = "svg"
	FormatPNG     Format = "png"
	FormatMermaid Format = "mermaid"
	FormatJSON    Format = "json"
	FormatSQLite  Format = "sqlite"
)

// ErrUnsupportedFormat is returned for unknown format names and extensions.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat parses a format name case-insensitively. "mmd" is accepted
// for Mermaid and "db" for SQLite.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "json":
		return FormatJSON, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension written for f, with the leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatMermaid:
		return ".mmd"
	case FormatSQLite:
		return ".sqlite3"
	default:
		return "." + string(f)
	}
}

// PerGraph reports whether f renders one graph per file.
func (f Format) PerGraph() bool {
	return f != FormatSQLite
}
