package embedding

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
)

// Format selects the on-disk layout of a word2vec model file.
type Format string

const (
	// FormatAuto picks binary or text from the file extension, then from the content.
	FormatAuto Format = "auto"
	// FormatBinary is the C word2vec / gensim binary layout.
	FormatBinary Format = "binary"
	// FormatText is one whitespace-separated "token v1 ... vN" line per entry.
	FormatText Format = "text"
)

// ParseFormat converts a configuration string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatBinary, "bin":
		return FormatBinary, nil
	case FormatText, "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid model format: %s (must be 'auto', 'binary', or 'text')", s)
	}
}

// Load memory-maps the model file at path and decodes it.
func Load(path string, format Format) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat model: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("model file %s is empty", path)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap model: %w", err)
	}
	defer data.Unmap()

	if format == FormatAuto {
		format = formatFromExtension(path)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a model from its serialized bytes. The returned model does not
// reference data.
func Parse(data []byte, format Format) (*Model, error) {
	vocab, dim, body, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = sniffFormat(body, dim)
	}
	if err := checkSize(body, vocab, dim, format); err != nil {
		return nil, err
	}
	switch format {
	case FormatBinary:
		return parseBinary(body, vocab, dim)
	case FormatText:
		return parseText(body, vocab, dim)
	default:
		return nil, fmt.Errorf("unsupported model format: %s", format)
	}
}

func formatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		return FormatBinary
	case ".txt", ".vec":
		return FormatText
	default:
		return FormatAuto
	}
}

// parseHeader reads the "<vocab> <dim>" first line.
func parseHeader(data []byte) (vocab, dim int, body []byte, err error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return 0, 0, nil, fmt.Errorf("malformed header: missing newline")
	}
	fields := strings.Fields(string(data[:nl]))
	if len(fields) != 2 {
		return 0, 0, nil, fmt.Errorf("malformed header %q: want \"<vocab_size> <vector_size>\"", string(data[:nl]))
	}
	if vocab, err = strconv.Atoi(fields[0]); err != nil || vocab < 0 {
		return 0, 0, nil, fmt.Errorf("malformed header: invalid vocabulary size %q", fields[0])
	}
	if dim, err = strconv.Atoi(fields[1]); err != nil || dim <= 0 {
		return 0, 0, nil, fmt.Errorf("malformed header: invalid vector size %q", fields[1])
	}
	return vocab, dim, data[nl+1:], nil
}

// checkSize rejects headers that promise more entries than body can hold, so
// buffers are never sized from an unchecked header. A binary entry takes at
// least a token byte, a space and dim*4 bytes; a text entry takes a token byte
// plus dim " v" pairs.
func checkSize(body []byte, vocab, dim int, format Format) error {
	if vocab == 0 {
		return nil
	}
	valueWidth, overhead := 2, 1
	if format == FormatBinary {
		valueWidth, overhead = 4, 2
	}
	if dim > len(body)/valueWidth || vocab > len(body)/(dim*valueWidth+overhead) {
		return fmt.Errorf("truncated model: header declares %d entries of %d values, body has %d bytes", vocab, dim, len(body))
	}
	return nil
}

// sniffFormat treats the body as text when its first line is a token followed
// by exactly dim parseable numbers.
func sniffFormat(body []byte, dim int) Format {
	line := body
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		line = body[:nl]
	}
	if !utf8.Valid(line) {
		return FormatBinary
	}
	fields := strings.Fields(string(line))
	if len(fields) != dim+1 {
		return FormatBinary
	}
	for _, f := range fields[1:] {
		if _, err := strconv.ParseFloat(f, 32); err != nil {
			return FormatBinary
		}
	}
	return FormatText
}

func parseBinary(body []byte, vocab, dim int) (*Model, error) {
	tokens := make([]string, 0, vocab)
	flat := make([]float32, vocab*dim)
	width := dim * 4

	pos := 0
	for i := 0; i < vocab; i++ {
		// the C tool terminates each entry with a newline, gensim does not
		for pos < len(body) && body[pos] == '\n' {
			pos++
		}
		sp := bytes.IndexByte(body[pos:], ' ')
		if sp <= 0 {
			return nil, fmt.Errorf("truncated model: expected %d entries, found %d", vocab, i)
		}
		token := string(body[pos : pos+sp])
		pos += sp + 1
		if pos+width > len(body) {
			return nil, fmt.Errorf("truncated vector for %q (entry %d)", token, i)
		}
		row := flat[i*dim : (i+1)*dim]
		for j := range row {
			v := math.Float32frombits(binary.LittleEndian.Uint32(body[pos+4*j:]))
			if !finite(v) {
				return nil, fmt.Errorf("non-finite value in vector for %q", token)
			}
			row[j] = v
		}
		pos += width
		tokens = append(tokens, token)
	}
	return newModel(tokens, flat, dim)
}

func parseText(body []byte, vocab, dim int) (*Model, error) {
	tokens := make([]string, 0, vocab)
	flat := make([]float32, 0, vocab*dim)

	lineNo := 1
	for len(body) > 0 && len(tokens) < vocab {
		var line []byte
		if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
			line, body = body[:nl], body[nl+1:]
		} else {
			line, body = body, nil
		}
		lineNo++

		fields := strings.Fields(string(line))
		if len(fields) == 0 {
			continue
		}
		if len(fields) != dim+1 {
			return nil, fmt.Errorf("line %d: %q has %d values, want %d", lineNo, fields[0], len(fields)-1, dim)
		}
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", lineNo, f, err)
			}
			if !finite(float32(v)) {
				return nil, fmt.Errorf("line %d: non-finite value in vector for %q", lineNo, fields[0])
			}
			flat = append(flat, float32(v))
		}
		tokens = append(tokens, fields[0])
	}
	if len(tokens) != vocab {
		return nil, fmt.Errorf("truncated model: expected %d entries, found %d", vocab, len(tokens))
	}
	return newModel(tokens, flat, dim)
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
