package embedding

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textModel = `4 3
C 1 0 0
G 0.9 0.1 0
Am 0.8 0 0.2
F 0 1 0
`

func encode(t *testing.T, m *Model, format Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, format))
	return buf.Bytes()
}

func assertSameModel(t *testing.T, want, got *Model) {
	t.Helper()
	require.Equal(t, want.Tokens(-1), got.Tokens(-1))
	require.Equal(t, want.Dim(), got.Dim())
	for _, tok := range want.Tokens(-1) {
		wv, err := want.Vector(tok)
		require.NoError(t, err)
		gv, err := got.Vector(tok)
		require.NoError(t, err)
		assert.Equal(t, wv, gv, tok)
	}
}

func TestParseText(t *testing.T) {
	m, err := Parse([]byte(textModel), FormatText)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 3, m.Dim())
	assert.Equal(t, []string{"C", "G", "Am", "F"}, m.Tokens(10))
}

func TestBinaryAndTextDecodeIdentically(t *testing.T) {
	fromText, err := Parse([]byte(textModel), FormatText)
	require.NoError(t, err)

	bin := encode(t, fromText, FormatBinary)
	fromBinary, err := Parse(bin, FormatBinary)
	require.NoError(t, err)
	assertSameModel(t, fromText, fromBinary)

	sniffed, err := Parse(bin, FormatAuto)
	require.NoError(t, err)
	assertSameModel(t, fromText, sniffed)

	reText, err := Parse(encode(t, fromBinary, FormatText), FormatAuto)
	require.NoError(t, err)
	assertSameModel(t, fromText, reText)
}

func TestParseBinaryWithNewlineSeparators(t *testing.T) {
	m, err := Parse([]byte(textModel), FormatText)
	require.NoError(t, err)

	// Rebuild the binary body the way the C word2vec tool writes it.
	var buf bytes.Buffer
	buf.WriteString("4 3\n")
	raw := encode(t, m, FormatBinary)
	body := raw[len("4 3\n"):]
	width := 3 * 4
	for _, tok := range m.Tokens(-1) {
		entry := len(tok) + 1 + width
		buf.Write(body[:entry])
		buf.WriteByte('\n')
		body = body[entry:]
	}

	got, err := Parse(buf.Bytes(), FormatBinary)
	require.NoError(t, err)
	assertSameModel(t, m, got)
}

func TestLoadFromDisk(t *testing.T) {
	m, err := Parse([]byte(textModel), FormatText)
	require.NoError(t, err)

	dir := t.TempDir()
	binPath := filepath.Join(dir, "chords.bin")
	require.NoError(t, os.WriteFile(binPath, encode(t, m, FormatBinary), 0o644))
	txtPath := filepath.Join(dir, "chords.model")
	require.NoError(t, os.WriteFile(txtPath, []byte(textModel), 0o644))

	fromBin, err := Load(binPath, FormatAuto)
	require.NoError(t, err)
	assertSameModel(t, m, fromBin)

	fromTxt, err := Load(txtPath, FormatAuto)
	require.NoError(t, err)
	assertSameModel(t, m, fromTxt)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.bin"), FormatAuto)
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Load(empty, FormatAuto)
	assert.ErrorContains(t, err, "empty")
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]struct {
		data   string
		format Format
		want   string
	}{
		"no header newline":  {"4 3", FormatText, "missing newline"},
		"one header field":   {"4\nC 1\n", FormatText, "malformed header"},
		"zero dimensions":    {"1 0\nC\n", FormatText, "vector size"},
		"negative vocab":     {"-1 3\n", FormatText, "vocabulary size"},
		"short vector":       {"1 3\nC 1.0 0.0\n", FormatText, "has 2 values"},
		"bad float":          {"1 2\nC 1 x\n", FormatText, "invalid value"},
		"not a number":       {"1 2\nC 1 NaN\n", FormatText, "non-finite"},
		"missing entries":    {"3 2\nC 1.0 0.0\nG 0.0 1.0\n", FormatText, "expected 3 entries, found 2"},
		"duplicate token":    {"2 1\nC 1\nC 2\n", FormatText, "duplicate token"},
		"truncated binary":   {"1 2\nC \x00\x00", FormatBinary, "header declares 1 entries of 2 values"},
		"truncated vector":   {"1 2\nCmaj7 \x00\x00\x80\x3f", FormatBinary, "truncated vector"},
		"binary short vocab": {"2 1\nC \x00\x00\x80\x3f\n\n\n\n\n\n", FormatBinary, "expected 2 entries, found 1"},
		"huge binary vocab":  {"4611686018427387904 4\nC \x00\x00\x80\x3f", FormatBinary, "truncated model"},
		"huge text vocab":    {"4611686018427387904 4\nC 1 0 0 0\n", FormatText, "truncated model"},
		"huge dimensions":    {"1 4611686018427387904\nC \x00\x00\x80\x3f", FormatBinary, "truncated model"},
		"huge auto header":   {"4611686018427387904 4\nC 1 0 0 0\n", FormatAuto, "truncated model"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":       FormatAuto,
		"auto":   FormatAuto,
		"BINARY": FormatBinary,
		"bin":    FormatBinary,
		" text ": FormatText,
		"txt":    FormatText,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pickle")
	assert.Error(t, err)
}
