// Package csvio reads and writes the delimited tabular files fed to batch
// processing. Input handling is deliberately forgiving: gzip-compressed
// files are decompressed transparently, non-UTF-8 files fall back to
// Latin-1/Windows-1252 decoding, and tab-separated files are detected from
// the extension or the header line.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/charmap"
)

// MaxFileSize is the default input cap of 50MB; ReadLimit accepts another.
const MaxFileSize = 50 * 1024 * 1024

// Dataset is an in-memory tabular file: a header row and data rows sharing
// its column count.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, or -1 when absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// AllowedExtension reports whether the filename has a supported tabular
// extension (.csv or .tsv, optionally gzip-compressed).
func AllowedExtension(name string) bool {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".gz")
	ext := filepath.Ext(name)
	return ext == ".csv" || ext == ".tsv"
}

// Read decodes a delimited file into a Dataset under the default size cap.
// The name is used only for extension-based delimiter and compression hints;
// content-based detection (gzip magic bytes, header sniffing) takes
// precedence where possible.
func Read(r io.Reader, name string) (*Dataset, error) {
	return ReadLimit(r, name, MaxFileSize)
}

// ReadLimit is Read with an explicit size cap in bytes. The cap applies both
// to the raw input and to the decompressed content; a non-positive cap falls
// back to MaxFileSize.
func ReadLimit(r io.Reader, name string, maxBytes int64) (*Dataset, error) {
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds the maximum size of %dMB", maxBytes/(1024*1024))
	}

	if isGzip(data) {
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress input: %w", err)
		}
		data, err = io.ReadAll(io.LimitReader(gr, maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("failed to decompress input: %w", err)
		}
		if int64(len(data)) > maxBytes {
			return nil, fmt.Errorf("file exceeds the maximum size of %dMB", maxBytes/(1024*1024))
		}
		name = strings.TrimSuffix(name, ".gz")
	}

	text := decode(data)
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("file is empty")
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(name, firstLine(text))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}

	return &Dataset{Columns: records[0], Rows: records[1:]}, nil
}

// Write encodes a dataset as comma-separated output.
func Write(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range d.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func isGzip(data []byte) bool {
	return len(data) > 2 && data[0] == 0x1f && data[1] == 0x8b
}

// decode returns data as a UTF-8 string, falling back to single-byte
// decodings for legacy files. Windows-1252 is chosen over Latin-1 when the
// data uses the 0x80-0x9F range, where 1252 maps to printable punctuation
// and Latin-1 to control characters.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	cm := charmap.ISO8859_1
	for _, b := range data {
		if b >= 0x80 && b <= 0x9f {
			cm = charmap.Windows1252
			break
		}
	}
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

func detectDelimiter(name, header string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	if strings.Contains(header, "\t") && !strings.Contains(header, ",") {
		return '\t'
	}
	return ','
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
