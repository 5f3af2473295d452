// Package metadatatest builds small metadata images in memory for tests.
//
// The builder writes real ECMA-335 structures: a #~ stream laid out with
// metadata.Sizes, the four heaps, a metadata root and optionally a minimal PE32
// file with a CLI header. Rows are appended per table and addressed by their
// 1-based index, exactly as other rows reference them.
package metadatatest

import (
	"fmt"

	"github.com/wippyai/winmd/metadata"
	"github.com/wippyai/winmd/metadata/internal/binary"
)

const metadataVersion = "v4.0.30319"

// Builder accumulates heaps and table rows.
type Builder struct {
	strings   *binary.Writer
	stringIdx map[string]uint32
	blob      *binary.Writer
	guid      *binary.Writer
	rows      [metadata.TableCount][][]uint32
	heapSizes byte
}

// New returns a builder with empty heaps.
func New() *Builder {
	b := &Builder{
		strings:   binary.NewWriter(),
		stringIdx: map[string]uint32{"": 0},
		blob:      binary.NewWriter(),
		guid:      binary.NewWriter(),
	}
	b.strings.Byte(0)
	b.blob.Byte(0)
	return b
}

// WideHeaps forces 4-byte indexes for the heaps selected by flags
// (metadata.HeapStringsWide and friends).
func (b *Builder) WideHeaps(flags byte) *Builder {
	b.heapSizes |= flags
	return b
}

// String interns s in the #Strings heap and returns its offset.
func (b *Builder) String(s string) uint32 {
	if off, ok := b.stringIdx[s]; ok {
		return off
	}
	off := uint32(b.strings.Len())
	b.strings.WriteCString(s)
	b.stringIdx[s] = off
	return off
}

// Blob appends data to the #Blob heap and returns its offset.
func (b *Builder) Blob(data []byte) uint32 {
	off := uint32(b.blob.Len())
	b.blob.WriteCompressed(uint32(len(data)))
	b.blob.WriteBytes(data)
	return off
}

// GUID appends g to the #GUID heap and returns its 1-based index.
func (b *Builder) GUID(g [16]byte) uint32 {
	b.guid.WriteBytes(g[:])
	return uint32(b.guid.Len() / 16)
}

// AddRow appends a row to t and returns its 1-based index. values are the raw
// column values: heap offsets, 1-based indexes, or encoded coded indexes.
func (b *Builder) AddRow(t metadata.TableID, values ...uint32) uint32 {
	if n := len(metadata.Schema(t)); n != len(values) {
		panic(fmt.Sprintf("metadatatest: %s has %d columns, got %d values", t, n, len(values)))
	}
	b.rows[t] = append(b.rows[t], values)
	return uint32(len(b.rows[t]))
}

// SetColumn overwrites one column of an existing 1-based row.
func (b *Builder) SetColumn(t metadata.TableID, index uint32, col int, value uint32) {
	b.rows[t][index-1][col] = value
}

// Rows returns the number of rows appended to t.
func (b *Builder) Rows(t metadata.TableID) uint32 {
	return uint32(len(b.rows[t]))
}

// Coded encodes a coded index value and panics if t is not a member of k.
func Coded(k metadata.CodedKind, t metadata.TableID, index uint32) uint32 {
	v, ok := k.Encode(t, index)
	if !ok {
		panic(fmt.Sprintf("metadatatest: %s is not a %s table", t, k))
	}
	return v
}

func (b *Builder) sizes() metadata.Sizes {
	s := metadata.Sizes{HeapSizes: b.heapSizes}
	for t := range b.rows {
		s.Rows[t] = uint32(len(b.rows[t]))
	}
	return s
}

func (b *Builder) tableStream() []byte {
	sizes := b.sizes()
	w := binary.NewWriter()

	var valid uint64
	for t, rows := range b.rows {
		if len(rows) > 0 {
			valid |= 1 << t
		}
	}

	w.WriteU32LE(0)
	w.Byte(2)
	w.Byte(0)
	w.Byte(b.heapSizes)
	w.Byte(1)
	w.WriteU64LE(valid)
	w.WriteU64LE(0)
	for _, rows := range b.rows {
		if len(rows) > 0 {
			w.WriteU32LE(uint32(len(rows)))
		}
	}

	for t, rows := range b.rows {
		schema := metadata.Schema(metadata.TableID(t))
		for _, row := range rows {
			for i, c := range schema {
				w.WriteUint(row[i], sizes.ColumnWidth(c))
			}
		}
	}
	w.Align(4)
	return w.Bytes()
}

type stream struct {
	name string
	data []byte
}

// Root returns a bare metadata root (BSJB) holding all streams.
func (b *Builder) Root() []byte {
	pad := func(w *binary.Writer) []byte {
		c := binary.NewWriter()
		c.WriteBytes(w.Bytes())
		c.Align(4)
		return c.Bytes()
	}
	userStrings := []byte{0, 0, 0, 0}
	streams := []stream{
		{metadata.StreamTables, b.tableStream()},
		{metadata.StreamStrings, pad(b.strings)},
		{metadata.StreamUserStrings, userStrings},
		{metadata.StreamGUID, pad(b.guid)},
		{metadata.StreamBlob, pad(b.blob)},
	}

	versionLen := (len(metadataVersion) + 1 + 3) &^ 3
	headerLen := 16 + versionLen + 4
	for _, s := range streams {
		headerLen += 8 + (len(s.name)+1+3)&^3
	}

	w := binary.NewWriter()
	w.WriteU32LE(metadata.MetadataSignature)
	w.WriteU16LE(1)
	w.WriteU16LE(1)
	w.WriteU32LE(0)
	w.WriteU32LE(uint32(versionLen))
	w.WriteCString(metadataVersion)
	w.Align(4)
	w.WriteU16LE(0)
	w.WriteU16LE(uint16(len(streams)))

	offset := headerLen
	for _, s := range streams {
		w.WriteU32LE(uint32(offset))
		w.WriteU32LE(uint32(len(s.data)))
		w.WriteCString(s.name)
		w.Align(4)
		offset += len(s.data)
	}
	for _, s := range streams {
		w.WriteBytes(s.data)
	}
	return w.Bytes()
}

// PE layout constants for the minimal image.
const (
	peHeaderOffset = 0x80
	optHeaderSize  = 224
	fileAlignment  = 0x200
	textRVA        = 0x2000
	cliHeaderSize  = 72
)

// PE wraps Root in a minimal PE32 image with one .text section holding the
// CLI header followed by the metadata root.
func (b *Builder) PE() []byte {
	root := b.Root()

	w := binary.NewWriter()
	// DOS header
	w.WriteU16LE(metadata.DOSSignature)
	for w.Len() < 0x3C {
		w.Byte(0)
	}
	w.WriteU32LE(peHeaderOffset)
	for w.Len() < peHeaderOffset {
		w.Byte(0)
	}

	// PE signature and COFF header
	w.WriteU32LE(metadata.PESignature)
	w.WriteU16LE(0x14C)
	w.WriteU16LE(1)
	w.WriteU32LE(0)
	w.WriteU32LE(0)
	w.WriteU32LE(0)
	w.WriteU16LE(optHeaderSize)
	w.WriteU16LE(0x2102)

	// PE32 optional header: 96 bytes of standard and NT fields, then 16 directories
	opt := binary.NewWriter()
	opt.WriteU16LE(0x10B)
	for opt.Len() < 92 {
		opt.Byte(0)
	}
	opt.WriteU32LE(16)
	for i := 0; i < 16; i++ {
		if i == metadata.CLIHeaderDirectory {
			opt.WriteU32LE(textRVA)
			opt.WriteU32LE(cliHeaderSize)
			continue
		}
		opt.WriteU64LE(0)
	}
	w.WriteBytes(opt.Bytes())

	text := binary.NewWriter()
	text.WriteU32LE(cliHeaderSize)
	text.WriteU16LE(2)
	text.WriteU16LE(5)
	text.WriteU32LE(textRVA + cliHeaderSize)
	text.WriteU32LE(uint32(len(root)))
	for text.Len() < cliHeaderSize {
		text.Byte(0)
	}
	text.WriteBytes(root)
	text.Align(fileAlignment)

	// section header
	w.WriteBytes([]byte(".text\x00\x00\x00"))
	w.WriteU32LE(uint32(text.Len()))
	w.WriteU32LE(textRVA)
	w.WriteU32LE(uint32(text.Len()))
	w.WriteU32LE(fileAlignment)
	w.WriteU32LE(0)
	w.WriteU32LE(0)
	w.WriteU16LE(0)
	w.WriteU16LE(0)
	w.WriteU32LE(0x60000020)
	w.Align(fileAlignment)

	w.WriteBytes(text.Bytes())
	return w.Bytes()
}
