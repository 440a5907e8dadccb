package directory

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var (
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// maxDecompressed bounds decompressed exports. A recipient directory is a
// few megabytes at most.
const maxDecompressed = 256 << 20

// decompress inflates gzip or zstd payloads detected by magic bytes and
// returns other payloads unchanged.
func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer reader.Close()
		out, err := io.ReadAll(io.LimitReader(reader, maxDecompressed))
		if err != nil {
			return nil, fmt.Errorf("read gzip: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, zstdMagic):
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecompressed))
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		out, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decode zstd: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}

// toText strips a UTF-8 BOM, decodes non-UTF-8 input as Windows-1252 and
// normalizes to NFC so composed and decomposed umlauts compare equal.
func toText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
	}
	return norm.NFC.String(string(data)), nil
}

// baseName strips compression suffixes so the tabular extension is visible.
func baseName(name string) string {
	lower := strings.ToLower(name)
	for _, suffix := range []string{".gz", ".zst"} {
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

// sniffDelimiter picks the field separator from the header line.
func sniffDelimiter(name, text string) rune {
	if strings.HasSuffix(strings.ToLower(baseName(name)), ".tsv") {
		return '\t'
	}
	header := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		header = text[:idx]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, candidate := range []rune{';', '\t'} {
		if n := strings.Count(header, string(candidate)); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}
