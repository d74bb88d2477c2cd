package embedding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Encode writes m to w in the given word2vec layout. Binary output follows the
// gensim convention of no separator between entries.
func Encode(w io.Writer, m *Model, format Format) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", m.Len(), m.Dim()); err != nil {
		return err
	}

	buf := make([]byte, 4)
	for i, tok := range m.tokens {
		row := m.vectors[i*m.dim : (i+1)*m.dim]
		switch format {
		case FormatBinary:
			if _, err := bw.WriteString(tok + " "); err != nil {
				return err
			}
			for _, v := range row {
				binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
				if _, err := bw.Write(buf); err != nil {
					return err
				}
			}
		case FormatText:
			if _, err := bw.WriteString(tok); err != nil {
				return err
			}
			for _, v := range row {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
				if _, err := bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32)); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		default:
			return fmt.Errorf("cannot encode model as %q", format)
		}
	}
	return bw.Flush()
}
