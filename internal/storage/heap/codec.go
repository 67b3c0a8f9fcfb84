package heap

import (
	"encoding/binary"
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

const (
	tagInt     = 1
	tagText    = 2
	tagBoolean = 3
)

// encodeRow marshals row's values for cols (in order) into a self-describing
// byte slice: one tag byte per column followed by its payload. INT is a
// fixed 8 bytes, BOOLEAN a fixed 1 byte, TEXT a 4-byte length prefix plus
// UTF-8 bytes.
func encodeRow(row value.Row, cols schema.ColumnNames) ([]byte, error) {
	var buf []byte
	for _, col := range cols {
		v, ok := row[col]
		if !ok {
			return nil, fmt.Errorf("heap: row missing column %q", col)
		}
		switch v.Kind {
		case value.KindInt:
			b := make([]byte, 9)
			b[0] = tagInt
			binary.LittleEndian.PutUint64(b[1:], uint64(v.N))
			buf = append(buf, b...)
		case value.KindText:
			lenBuf := make([]byte, 5)
			lenBuf[0] = tagText
			binary.LittleEndian.PutUint32(lenBuf[1:], uint32(len(v.S)))
			buf = append(buf, lenBuf...)
			buf = append(buf, v.S...)
		case value.KindBoolean:
			b := byte(0)
			if v.B {
				b = 1
			}
			buf = append(buf, tagBoolean, b)
		default:
			return nil, fmt.Errorf("heap: unsupported value kind for column %q", col)
		}
	}
	return buf, nil
}

// decodeRow is the inverse of encodeRow, given the same cols in the same
// order used to encode.
func decodeRow(data []byte, cols schema.ColumnNames) (value.Row, error) {
	row := make(value.Row, len(cols))
	pos := 0
	for _, col := range cols {
		if pos >= len(data) {
			return nil, fmt.Errorf("heap: truncated record at column %q", col)
		}
		tag := data[pos]
		pos++
		switch tag {
		case tagInt:
			if pos+8 > len(data) {
				return nil, fmt.Errorf("heap: truncated int at column %q", col)
			}
			n := int64(binary.LittleEndian.Uint64(data[pos : pos+8]))
			pos += 8
			row[col] = value.Int(n)
		case tagText:
			if pos+4 > len(data) {
				return nil, fmt.Errorf("heap: truncated text length at column %q", col)
			}
			n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if pos+n > len(data) {
				return nil, fmt.Errorf("heap: truncated text at column %q", col)
			}
			row[col] = value.Text(string(data[pos : pos+n]))
			pos += n
		case tagBoolean:
			if pos >= len(data) {
				return nil, fmt.Errorf("heap: truncated bool at column %q", col)
			}
			row[col] = value.Boolean(data[pos] != 0)
			pos++
		default:
			return nil, fmt.Errorf("heap: unknown type tag %d at column %q", tag, col)
		}
	}
	return row, nil
}
