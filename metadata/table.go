package metadata

import (
	"encoding/binary"
	"fmt"
	"strings"

	mderrors "github.com/wippyai/winmd/errors"
	bin "github.com/wippyai/winmd/metadata/internal/binary"
)

// Version returns the metadata version string from the root header.
func (f *File) Version() string {
	return f.version
}

// Streams returns the stream headers in root order.
func (f *File) Streams() []StreamHeader {
	return f.streams
}

// HeapSizes returns the #~ heap size flags.
func (f *File) HeapSizes() byte {
	return f.sizes.HeapSizes
}

// Rows returns the number of rows in t.
func (f *File) Rows(t TableID) uint32 {
	if !t.Valid() {
		return 0
	}
	return f.tables[t].rows
}

// ColumnWidth returns the encoded width of column col of t in this image.
func (f *File) ColumnWidth(t TableID, col int) int {
	if !t.Valid() || col < 0 || col >= len(f.tables[t].widths) {
		return 0
	}
	return f.tables[t].widths[col]
}

// Uint reads column col of the zero-based row of t as an unsigned value.
// Heap and index columns return the raw stored offset or 1-based index.
func (f *File) Uint(t TableID, row uint32, col int) (uint32, error) {
	if !t.Valid() {
		return 0, mderrors.InvalidInput(mderrors.PhaseDecode, fmt.Sprintf("unknown table 0x%02x", uint8(t)))
	}
	tb := &f.tables[t]
	if row >= tb.rows {
		return 0, mderrors.OutOfBounds(mderrors.PhaseDecode, t.String(), int(row), int(tb.rows))
	}
	if col < 0 || col >= len(tb.offsets) {
		return 0, mderrors.OutOfBounds(mderrors.PhaseDecode, t.String(), col, len(tb.offsets))
	}
	off := int(row)*tb.rowSize + tb.offsets[col]
	switch tb.widths[col] {
	case 2:
		return uint32(binary.LittleEndian.Uint16(tb.data[off:])), nil
	default:
		return binary.LittleEndian.Uint32(tb.data[off:]), nil
	}
}

func (f *File) column(t TableID, col int, kind ColumnKind) (Column, error) {
	schema := Schema(t)
	if col < 0 || col >= len(schema) {
		return Column{}, mderrors.OutOfBounds(mderrors.PhaseDecode, t.String(), col, len(schema))
	}
	c := schema[col]
	if c.Kind != kind {
		return Column{}, mderrors.New(mderrors.PhaseDecode, mderrors.KindInvalidInput).
			Table(t.String()).
			Detail("column %s has kind %d, not %d", c.Name, c.Kind, kind).
			Build()
	}
	return c, nil
}

// String reads a string-heap column. The result shares memory with the heap.
func (f *File) String(t TableID, row uint32, col int) (string, error) {
	if _, err := f.column(t, col, ColString); err != nil {
		return "", err
	}
	off, err := f.Uint(t, row, col)
	if err != nil {
		return "", err
	}
	return f.StringAt(off)
}

// StringAt returns the NUL-terminated string at offset off of the #Strings heap.
func (f *File) StringAt(off uint32) (string, error) {
	if int(off) >= len(f.strings) {
		if off == 0 {
			return "", nil
		}
		return "", mderrors.OutOfBounds(mderrors.PhaseDecode, StreamStrings, int(off), len(f.strings))
	}
	rest := f.strings[off:]
	end := strings.IndexByte(rest, 0)
	if end < 0 {
		return "", mderrors.InvalidData(mderrors.PhaseDecode, StreamStrings,
			fmt.Sprintf("string at offset %d is not terminated", off))
	}
	return rest[:end], nil
}

// Blob reads a blob-heap column.
func (f *File) Blob(t TableID, row uint32, col int) ([]byte, error) {
	if _, err := f.column(t, col, ColBlob); err != nil {
		return nil, err
	}
	off, err := f.Uint(t, row, col)
	if err != nil {
		return nil, err
	}
	return f.BlobAt(off)
}

// BlobAt returns the length-prefixed blob at offset off of the #Blob heap.
func (f *File) BlobAt(off uint32) ([]byte, error) {
	if off == 0 && len(f.blob) == 0 {
		return nil, nil
	}
	if int(off) >= len(f.blob) {
		return nil, mderrors.OutOfBounds(mderrors.PhaseDecode, StreamBlob, int(off), len(f.blob))
	}
	r := bin.NewReader(f.blob)
	_ = r.Reset(int(off))
	n, err := r.ReadCompressed()
	if err != nil {
		return nil, mderrors.Wrap(mderrors.PhaseDecode, mderrors.KindInvalidData, err, "blob length")
	}
	data, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, mderrors.Wrap(mderrors.PhaseDecode, mderrors.KindOutOfBounds, err, "blob data")
	}
	return data, nil
}

// GUID reads a GUID-heap column. A null index yields the zero GUID.
func (f *File) GUID(t TableID, row uint32, col int) ([16]byte, error) {
	var g [16]byte
	if _, err := f.column(t, col, ColGUID); err != nil {
		return g, err
	}
	index, err := f.Uint(t, row, col)
	if err != nil || index == 0 {
		return g, err
	}
	start := int(index-1) * 16
	if start+16 > len(f.guid) {
		return g, mderrors.OutOfBounds(mderrors.PhaseDecode, StreamGUID, int(index), len(f.guid)/16)
	}
	copy(g[:], f.guid[start:start+16])
	return g, nil
}

// Decode reads a coded index column. The tag must name a table of the column's
// coded family and a non-null index must address an existing row.
func (f *File) Decode(t TableID, row uint32, col int) (CodedIndex, error) {
	c, err := f.column(t, col, ColCoded)
	if err != nil {
		return CodedIndex{}, err
	}
	v, err := f.Uint(t, row, col)
	if err != nil {
		return CodedIndex{}, err
	}

	tagBits := c.Coded.TagBits()
	tag := v & (1<<tagBits - 1)
	members := c.Coded.Tables()
	if int(tag) >= len(members) || members[tag] == tableUnused {
		return CodedIndex{}, mderrors.New(mderrors.PhaseDecode, mderrors.KindInvalidData).
			Table(t.String()).
			Value(v).
			Detail("%s tag %d out of range at row %d", c.Coded, tag, row).
			Build()
	}

	ci := CodedIndex{Kind: c.Coded, Table: members[tag], Index: v >> tagBits}
	if ci.Index > f.tables[ci.Table].rows {
		return CodedIndex{}, mderrors.New(mderrors.PhaseDecode, mderrors.KindOutOfBounds).
			Table(t.String()).
			Value(v).
			Detail("%s points at %s row %d of %d", c.Coded, ci.Table, ci.Index, f.tables[ci.Table].rows).
			Build()
	}
	return ci, nil
}

// List returns the half-open zero-based row range [begin, end) owned by a list
// column such as TypeDef.MethodList. The range runs to the next row's value or
// to the end of the target table.
func (f *File) List(t TableID, row uint32, col int) (begin, end uint32, err error) {
	c, err := f.column(t, col, ColTable)
	if err != nil {
		return 0, 0, err
	}
	first, err := f.Uint(t, row, col)
	if err != nil {
		return 0, 0, err
	}
	target := f.tables[c.Table].rows
	last := target + 1
	if row+1 < f.tables[t].rows {
		if last, err = f.Uint(t, row+1, col); err != nil {
			return 0, 0, err
		}
	}
	if first == 0 || first > target+1 || last < first || last > target+1 {
		return 0, 0, mderrors.New(mderrors.PhaseDecode, mderrors.KindOutOfBounds).
			Table(t.String()).
			Detail("%s list [%d, %d) invalid for %d rows of %s", c.Name, first, last, target, c.Table).
			Build()
	}
	return first - 1, last - 1, nil
}
