// Package sources loads the inputs of a reconciliation run from disk: the
// dependency tree (text, JSON or pipgrip JSON) and the CycloneDX SBOM.
package sources

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrMissingFile is returned when an input path does not exist or is not
	// a regular file.
	ErrMissingFile = errors.New("missing file")

	// ErrInvalidFormat is returned when an input is not valid JSON or does
	// not have the expected JSON shape.
	ErrInvalidFormat = errors.New("invalid format")
)

// TreeFormat names a dependency tree input format.
type TreeFormat string

const (
	TreeFormatAuto    TreeFormat = "auto"
	TreeFormatText    TreeFormat = "text"
	TreeFormatJSON    TreeFormat = "json"
	TreeFormatPipgrip TreeFormat = "pipgrip"
)

// ParseTreeFormat parses a format name case-insensitively. An empty name
// means TreeFormatAuto.
func ParseTreeFormat(s string) (TreeFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return TreeFormatAuto, nil
	case "text", "txt":
		return TreeFormatText, nil
	case "json", "pipdeptree":
		return TreeFormatJSON, nil
	case "pipgrip":
		return TreeFormatPipgrip, nil
	}
	return "", fmt.Errorf("unsupported tree format %q (supported: auto, text, json, pipgrip)", s)
}

// DetectTreeFormat guesses the format of tree data:
//   - a JSON array, or an object with a "dependencies"/"children" array → json
//   - any other JSON object → pipgrip ({"name==version": {...}})
//   - content that starts like JSON but does not parse → json, so loading
//     reports ErrInvalidFormat instead of treating it as text
//   - everything else → text
func DetectTreeFormat(data []byte) TreeFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return TreeFormatText
	}
	if !gjson.ValidBytes(trimmed) {
		if trimmed[0] == '{' || trimmed[0] == '[' {
			return TreeFormatJSON
		}
		return TreeFormatText
	}

	doc := gjson.ParseBytes(trimmed)
	switch {
	case doc.IsArray():
		return TreeFormatJSON
	case doc.IsObject():
		if doc.Get("dependencies").IsArray() || doc.Get("children").IsArray() {
			return TreeFormatJSON
		}
		return TreeFormatPipgrip
	}
	return TreeFormatText
}

// readFile reads an input file, mapping a missing path or a directory to
// ErrMissingFile.
func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("cannot access %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMissingFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", path, err)
	}
	return data, nil
}

// parseJSON validates data and returns its parsed root.
func parseJSON(path string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidFormat, path)
	}
	return gjson.ParseBytes(data), nil
}
