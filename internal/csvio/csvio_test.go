package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestReadCommaSeparated(t *testing.T) {
	in := "product_name,color\nMug,blue\nLamp,white\n"

	d, err := Read(strings.NewReader(in), "products.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Columns) != 2 || d.Columns[0] != "product_name" {
		t.Errorf("unexpected columns %v", d.Columns)
	}
	if len(d.Rows) != 2 || d.Rows[1][0] != "Lamp" {
		t.Errorf("unexpected rows %v", d.Rows)
	}
}

func TestReadTabSeparatedByExtension(t *testing.T) {
	in := "product_name\tcolor\nMug\tblue\n"

	d, err := Read(strings.NewReader(in), "products.tsv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Columns) != 2 || d.Rows[0][1] != "blue" {
		t.Errorf("unexpected dataset %v / %v", d.Columns, d.Rows)
	}
}

func TestReadTabSeparatedBySniffing(t *testing.T) {
	in := "product_name\tcolor\nMug\tblue\n"

	// Extension says csv, content says tab.
	d, err := Read(strings.NewReader(in), "products.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Columns) != 2 {
		t.Errorf("tab delimiter not detected, got columns %v", d.Columns)
	}
}

func TestReadGzipCompressed(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte("product_name,color\nMug,blue\n"))
	gw.Close()

	d, err := Read(&buf, "products.csv.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Rows) != 1 || d.Rows[0][0] != "Mug" {
		t.Errorf("unexpected rows %v", d.Rows)
	}
}

func TestReadStripsBOM(t *testing.T) {
	in := "\ufeffproduct_name,color\nMug,blue\n"

	d, err := Read(strings.NewReader(in), "products.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Columns[0] != "product_name" {
		t.Errorf("BOM not stripped from header, got %q", d.Columns[0])
	}
}

func TestReadLatin1Fallback(t *testing.T) {
	// "Café,Décor" in ISO 8859-1: é = 0xE9, not valid UTF-8.
	in := []byte("product_name,style\nCaf\xe9,D\xe9cor\n")

	d, err := Read(bytes.NewReader(in), "products.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Rows[0][0] != "Café" || d.Rows[0][1] != "Décor" {
		t.Errorf("Latin-1 fallback failed, got %v", d.Rows[0])
	}
}

func TestReadWindows1252Fallback(t *testing.T) {
	// 0x93/0x94 are curly quotes in CP1252 but control characters in Latin-1.
	in := []byte("product_name\n\x93Fancy\x94 Mug\n")

	d, err := Read(bytes.NewReader(in), "products.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Rows[0][0] != "“Fancy” Mug" {
		t.Errorf("CP1252 fallback failed, got %q", d.Rows[0][0])
	}
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader("   \n  "), "empty.csv")
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty-file error, got %v", err)
	}
}

func TestReadOversizedFile(t *testing.T) {
	big := strings.NewReader(strings.Repeat("x", MaxFileSize+10))
	_, err := Read(big, "big.csv")
	if err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("expected size-limit error, got %v", err)
	}
}

func TestReadLimitHonorsConfiguredCap(t *testing.T) {
	in := "product_name,color\n" + strings.Repeat("Mug,blue\n", 200)

	_, err := ReadLimit(strings.NewReader(in), "products.csv", 64)
	if err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("expected size-limit error under a small cap, got %v", err)
	}

	d, err := ReadLimit(strings.NewReader(in), "products.csv", int64(len(in)))
	if err != nil {
		t.Fatalf("unexpected error under a sufficient cap: %v", err)
	}
	if len(d.Rows) != 200 {
		t.Errorf("expected 200 rows, got %d", len(d.Rows))
	}
}

func TestReadLimitNonPositiveCapUsesDefault(t *testing.T) {
	in := "product_name\nMug\n"
	d, err := ReadLimit(strings.NewReader(in), "products.csv", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(d.Rows))
	}
}

func TestWriteRoundTrip(t *testing.T) {
	d := &Dataset{
		Columns: []string{"product_name", "note"},
		Rows: [][]string{
			{"Mug", "has, comma"},
			{"Lamp", "line\nbreak"},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Read(&buf, "out.csv")
	if err != nil {
		t.Fatalf("unexpected error re-reading output: %v", err)
	}
	if got.Rows[0][1] != "has, comma" || got.Rows[1][1] != "line\nbreak" {
		t.Errorf("round trip mismatch: %v", got.Rows)
	}
}

func TestColumnIndex(t *testing.T) {
	d := &Dataset{Columns: []string{"a", "b", "c"}}
	if got := d.ColumnIndex("b"); got != 1 {
		t.Errorf("ColumnIndex(b) = %d, want 1", got)
	}
	if got := d.ColumnIndex("missing"); got != -1 {
		t.Errorf("ColumnIndex(missing) = %d, want -1", got)
	}
}

func TestAllowedExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"data.csv", true},
		{"data.tsv", true},
		{"DATA.CSV", true},
		{"data.csv.gz", true},
		{"data.tsv.gz", true},
		{"data.xlsx", false},
		{"data.txt", false},
		{"data", false},
	}
	for _, tt := range tests {
		if got := AllowedExtension(tt.name); got != tt.want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
