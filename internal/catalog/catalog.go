// Package catalog reads, merges and encodes the extension index.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/salmanbappi/extrepo/internal/models"
)

// ReadPersisted loads the previously published catalog. A missing file is the
// first run and yields an empty catalog.
func ReadPersisted(path string) ([]models.Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, models.NewError(models.ErrFileOp, fmt.Errorf("read persisted catalog: %w", err))
	}

	entries, err := Decode(data)
	if err != nil {
		return nil, models.NewError(models.ErrCatalogParse, fmt.Errorf("%s: %w", path, err))
	}
	return entries, nil
}

// ReadLocal loads the fragment produced by the current run. The file must
// exist and satisfy the entry schema.
func ReadLocal(path string) ([]models.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.NewError(models.ErrMissingInput, fmt.Errorf("local catalog not found: %s", path))
		}
		return nil, models.NewError(models.ErrFileOp, fmt.Errorf("read local catalog: %w", err))
	}

	if err := Validate(data); err != nil {
		return nil, models.NewError(models.ErrCatalogParse, fmt.Errorf("%s: %w", path, err))
	}

	entries, err := Decode(data)
	if err != nil {
		return nil, models.NewError(models.ErrCatalogParse, fmt.Errorf("%s: %w", path, err))
	}
	return entries, nil
}

// Decode parses a JSON array of entries.
func Decode(data []byte) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// EncodeIndented renders the catalog with two-space indentation.
func EncodeIndented(entries []models.Entry) ([]byte, error) {
	return encode(entries, "  ")
}

// EncodeMinified renders the catalog without insignificant whitespace.
func EncodeMinified(entries []models.Entry) ([]byte, error) {
	return encode(entries, "")
}

func encode(entries []models.Entry, indent string) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	// Encoder terminates with a newline; the published files carry none.
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into the literal characters. Escaped backslashes are
// skipped as pairs so a literal "\\u2028" in a string is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+6 <= len(data) && data[i+1] == 'u' {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}
