package directory_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"hermes/internal/directory"
	"hermes/internal/services"
)

func mustParse(t *testing.T, name, data string) directory.Result {
	t.Helper()
	result, err := directory.Parse(name, []byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return result
}

func TestParseJoinsLastAndFirstName(t *testing.T) {
	result := mustParse(t, "export.csv", "Sendungsnummer,Vorname,Nachname\n123,Jane,Doe\n")
	if len(result.Entries) != 1 {
		t.Fatalf("expected one entry, got %+v", result.Entries)
	}
	if got := result.Entries[0]; got.Code != "123" || got.Name != "Doe, Jane" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestParseColumnPriority(t *testing.T) {
	tests := []struct {
		name string
		data string
		want directory.Entry
	}{
		{
			name: "direct name wins over parts",
			data: "sendungsnr;Name;Nachname\nX1;Maria Schmidt;Schmidt\n",
			want: directory.Entry{Code: "X1", Name: "Maria Schmidt"},
		},
		{
			name: "lower priority code column used when higher is blank",
			data: "sendungsnr,Sendungsnr,name\n,X2,Ada\n",
			want: directory.Entry{Code: "X2", Name: "Ada"},
		},
		{
			name: "empty direct name falls back",
			data: "Sendungsnr,name,lastname\nX3,,Lovelace\n",
			want: directory.Entry{Code: "X3", Name: "Lovelace"},
		},
		{
			name: "only first name",
			data: "Sendungsnr,firstname\nX4,Ada\n",
			want: directory.Entry{Code: "X4", Name: "Ada"},
		},
		{
			name: "no name at all",
			data: "Sendungsnr,zone\nX5,A\n",
			want: directory.Entry{Code: "X5", Name: ""},
		},
		{
			name: "header names are case-sensitive",
			data: "SENDUNGSNR,sendungsnummer,NAME,Empfänger\nno,X6,ignored,Jörg\n",
			want: directory.Entry{Code: "X6", Name: "Jörg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustParse(t, "export.csv", tt.data)
			if len(result.Entries) != 1 || result.Entries[0] != tt.want {
				t.Fatalf("got %+v want %+v", result.Entries, tt.want)
			}
		})
	}
}

func TestParseCountsSkippedAndDuplicates(t *testing.T) {
	data := "sendungsnr,name\nA,First\n,Nobody\nB,Second\nA,\nA,Renamed\n"
	result := mustParse(t, "export.csv", data)
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", result.Skipped)
	}
	if result.Duplicates != 2 {
		t.Fatalf("expected 2 duplicates, got %d", result.Duplicates)
	}
	want := []directory.Entry{{Code: "A", Name: "Renamed"}, {Code: "B", Name: "Second"}}
	if len(result.Entries) != len(want) {
		t.Fatalf("unexpected entries: %+v", result.Entries)
	}
	for i := range want {
		if result.Entries[i] != want[i] {
			t.Fatalf("entry %d: got %+v want %+v", i, result.Entries[i], want[i])
		}
	}
}

func TestParseEncodingsAndDelimiters(t *testing.T) {
	latin1 := append([]byte("sendungsnr;name\nK1;J"), 0xF6, 'r', 'g', '\n')
	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     directory.Entry
	}{
		{"bom", "export.csv", append([]byte{0xEF, 0xBB, 0xBF}, "sendungsnr,name\nK1,Ada\n"...), directory.Entry{Code: "K1", Name: "Ada"}},
		{"windows-1252", "export.csv", latin1, directory.Entry{Code: "K1", Name: "J\u00f6rg"}},
		{"decomposed umlaut", "export.csv", []byte("sendungsnr,name\nK1,Jo\u0308rg\n"), directory.Entry{Code: "K1", Name: "J\u00f6rg"}},
		{"tsv", "export.tsv", []byte("sendungsnr\tname\nK1\tAda, Countess\n"), directory.Entry{Code: "K1", Name: "Ada, Countess"}},
		{"quoted comma", "export.csv", []byte("sendungsnr,name\nK1,\"Doe, Jane\"\n"), directory.Entry{Code: "K1", Name: "Doe, Jane"}},
		{"crlf", "export.txt", []byte("sendungsnr;name\r\nK1;Ada\r\n"), directory.Entry{Code: "K1", Name: "Ada"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := directory.Parse(tt.fileName, tt.data)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if len(result.Entries) != 1 || result.Entries[0] != tt.want {
				t.Fatalf("got %+v want %+v", result.Entries, tt.want)
			}
		})
	}
}

func TestParseCompressedExports(t *testing.T) {
	plain := []byte("sendungsnr,name\nZ9,Grace\n")

	var gz bytes.Buffer
	writer := gzip.NewWriter(&gz)
	if _, err := writer.Write(plain); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	zst := encoder.EncodeAll(plain, nil)
	encoder.Close()

	for name, data := range map[string][]byte{"export.csv.gz": gz.Bytes(), "export.csv.zst": zst} {
		result, err := directory.Parse(name, data)
		if err != nil {
			t.Fatalf("%s: Parse returned error: %v", name, err)
		}
		if len(result.Entries) != 1 || result.Entries[0].Name != "Grace" {
			t.Fatalf("%s: unexpected entries %+v", name, result.Entries)
		}
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no code column", "id,name\n1,Ada\n"},
		{"header only", "sendungsnr,name\n"},
		{"all rows skipped", "sendungsnr,name\n,Ada\n  ,Grace\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := directory.Parse("export.csv", []byte(tt.data))
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !errors.Is(err, services.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
		})
	}
}
