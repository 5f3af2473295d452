package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"go.uber.org/zap"

	mderrors "github.com/wippyai/winmd/errors"
	bin "github.com/wippyai/winmd/metadata/internal/binary"
)

// Parsing errors returned by Parse.
var (
	ErrInvalidSignature = errors.New("invalid metadata signature")
	ErrNoCLIHeader      = errors.New("PE image has no CLI header")
	ErrMissingTables    = errors.New("metadata has no #~ stream")
)

// File is one parsed metadata image. It is immutable after Parse returns and
// safe for concurrent use.
type File struct {
	version      string
	majorVersion uint16
	minorVersion uint16
	streams      []StreamHeader
	sizes        Sizes
	tables       [TableCount]table
	strings      string
	blob         []byte
	guid         []byte
	userStrings  []byte
}

// StreamHeader describes one stream of the metadata root.
type StreamHeader struct {
	Name   string
	Offset uint32
	Size   uint32
}

type table struct {
	data    []byte
	rows    uint32
	rowSize int
	offsets []int
	widths  []int
}

// Parse parses a metadata image. data may be a PE file carrying a CLI header or
// a bare metadata root starting with the BSJB signature.
func Parse(data []byte) (*File, error) {
	if len(data) >= 2 && binary.LittleEndian.Uint16(data) == DOSSignature {
		root, err := metadataFromPE(data)
		if err != nil {
			return nil, err
		}
		return parseRoot(root)
	}
	return parseRoot(data)
}

// metadataFromPE locates the metadata root through the CLI header.
func metadataFromPE(data []byte) ([]byte, error) {
	r := bin.NewReader(data)

	if err := r.Reset(0x3C); err != nil {
		return nil, mderrors.Load("DOS header", err)
	}
	lfanew, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("DOS header", r.WrapError("e_lfanew", err))
	}
	if err := r.Reset(int(lfanew)); err != nil {
		return nil, mderrors.Load("PE header", err)
	}
	sig, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("PE header", r.WrapError("signature", err))
	}
	if sig != PESignature {
		return nil, mderrors.Load("PE header", ErrInvalidSignature)
	}

	// COFF file header
	if err := r.Skip(2); err != nil {
		return nil, mderrors.Load("COFF header", err)
	}
	numSections, err := r.ReadU16LE()
	if err != nil {
		return nil, mderrors.Load("COFF header", err)
	}
	if err := r.Skip(12); err != nil {
		return nil, mderrors.Load("COFF header", err)
	}
	optSize, err := r.ReadU16LE()
	if err != nil {
		return nil, mderrors.Load("COFF header", err)
	}
	if err := r.Skip(2); err != nil {
		return nil, mderrors.Load("COFF header", err)
	}

	optStart := r.Position()
	magic, err := r.ReadU16LE()
	if err != nil {
		return nil, mderrors.Load("optional header", err)
	}
	var countOffset, dirOffset int
	switch magic {
	case pe32Magic:
		countOffset, dirOffset = 92, 96
	case pe32PlusMagic:
		countOffset, dirOffset = 108, 112
	default:
		return nil, mderrors.Load("optional header", fmt.Errorf("unknown magic 0x%x", magic))
	}

	if err := r.Reset(optStart + countOffset); err != nil {
		return nil, mderrors.Load("optional header", err)
	}
	dirCount, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("optional header", err)
	}
	if dirCount <= CLIHeaderDirectory {
		return nil, mderrors.Load("optional header", ErrNoCLIHeader)
	}
	if err := r.Reset(optStart + dirOffset + CLIHeaderDirectory*8); err != nil {
		return nil, mderrors.Load("data directory", err)
	}
	cliRVA, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("data directory", err)
	}
	if cliRVA == 0 {
		return nil, mderrors.Load("data directory", ErrNoCLIHeader)
	}

	sections := make([]section, 0, numSections)
	if err := r.Reset(optStart + int(optSize)); err != nil {
		return nil, mderrors.Load("section table", err)
	}
	for i := 0; i < int(numSections); i++ {
		s, err := readSection(r)
		if err != nil {
			return nil, mderrors.Load("section table", err)
		}
		sections = append(sections, s)
	}

	cliOffset, ok := rvaToOffset(sections, cliRVA)
	if !ok {
		return nil, mderrors.Load("CLI header", fmt.Errorf("RVA 0x%x not in any section", cliRVA))
	}
	if err := r.Reset(int(cliOffset) + 8); err != nil {
		return nil, mderrors.Load("CLI header", err)
	}
	mdRVA, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("CLI header", err)
	}
	mdSize, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("CLI header", err)
	}
	mdOffset, ok := rvaToOffset(sections, mdRVA)
	if !ok {
		return nil, mderrors.Load("CLI header", fmt.Errorf("metadata RVA 0x%x not in any section", mdRVA))
	}
	if err := r.Reset(int(mdOffset)); err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	root, err := r.ReadBytes(int(mdSize))
	if err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	return root, nil
}

type section struct {
	virtualSize    uint32
	virtualAddress uint32
	rawSize        uint32
	rawOffset      uint32
}

func readSection(r *bin.Reader) (section, error) {
	var s section
	if err := r.Skip(8); err != nil {
		return s, err
	}
	fields := []*uint32{&s.virtualSize, &s.virtualAddress, &s.rawSize, &s.rawOffset}
	for _, f := range fields {
		v, err := r.ReadU32LE()
		if err != nil {
			return s, err
		}
		*f = v
	}
	// relocations, line numbers, counts, characteristics
	return s, r.Skip(16)
}

func rvaToOffset(sections []section, rva uint32) (uint32, bool) {
	for _, s := range sections {
		size := max(s.virtualSize, s.rawSize)
		if rva >= s.virtualAddress && rva < s.virtualAddress+size {
			return rva - s.virtualAddress + s.rawOffset, true
		}
	}
	return 0, false
}

func parseRoot(data []byte) (*File, error) {
	r := bin.NewReader(data)

	sig, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("metadata root", r.WrapError("signature", err))
	}
	if sig != MetadataSignature {
		return nil, mderrors.Load("metadata root", ErrInvalidSignature)
	}

	f := &File{}
	if f.majorVersion, err = r.ReadU16LE(); err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	if f.minorVersion, err = r.ReadU16LE(); err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	if err := r.Skip(4); err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	versionLen, err := r.ReadU32LE()
	if err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	version, err := r.ReadBytes(int(versionLen))
	if err != nil {
		return nil, mderrors.Load("metadata root", r.WrapError("version", err))
	}
	f.version = trimNul(version)

	// flags
	if err := r.Skip(2); err != nil {
		return nil, mderrors.Load("metadata root", err)
	}
	streamCount, err := r.ReadU16LE()
	if err != nil {
		return nil, mderrors.Load("metadata root", err)
	}

	var tables []byte
	for i := 0; i < int(streamCount); i++ {
		h, err := readStreamHeader(r)
		if err != nil {
			return nil, mderrors.Load("stream header", err)
		}
		end := uint64(h.Offset) + uint64(h.Size)
		if end > uint64(len(data)) {
			return nil, mderrors.New(mderrors.PhaseLoad, mderrors.KindOutOfBounds).
				Detail("stream %s [%d, %d) exceeds metadata size %d", h.Name, h.Offset, end, len(data)).
				Build()
		}
		body := data[h.Offset:end]
		f.streams = append(f.streams, h)

		switch h.Name {
		case StreamTables, StreamTablesUncompressed:
			tables = body
		case StreamStrings:
			f.strings = string(body)
		case StreamBlob:
			f.blob = body
		case StreamGUID:
			f.guid = body
		case StreamUserStrings:
			f.userStrings = body
		default:
			Logger().Debug("skipping unknown stream", zap.String("name", h.Name))
		}
	}

	if tables == nil {
		return nil, mderrors.Load("metadata root", ErrMissingTables)
	}
	if err := f.parseTables(tables); err != nil {
		return nil, err
	}

	Logger().Debug("parsed metadata image",
		zap.String("version", f.version),
		zap.Int("streams", len(f.streams)),
		zap.Uint32("typedefs", f.tables[TableTypeDef].rows),
		zap.Uint32("typerefs", f.tables[TableTypeRef].rows))

	return f, nil
}

func readStreamHeader(r *bin.Reader) (StreamHeader, error) {
	var h StreamHeader
	var err error
	if h.Offset, err = r.ReadU32LE(); err != nil {
		return h, err
	}
	if h.Size, err = r.ReadU32LE(); err != nil {
		return h, err
	}
	if h.Name, err = r.ReadCString(); err != nil {
		return h, err
	}
	return h, r.Align(4)
}

func trimNul(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func (f *File) parseTables(data []byte) error {
	r := bin.NewReader(data)

	// reserved, major, minor
	if err := r.Skip(6); err != nil {
		return mderrors.Load("#~ header", err)
	}
	heapSizes, err := r.ReadByte()
	if err != nil {
		return mderrors.Load("#~ header", r.WrapError("heap sizes", err))
	}
	if err := r.Skip(1); err != nil {
		return mderrors.Load("#~ header", err)
	}
	valid, err := r.ReadU64LE()
	if err != nil {
		return mderrors.Load("#~ header", err)
	}
	// sorted mask is informational only
	if _, err := r.ReadU64LE(); err != nil {
		return mderrors.Load("#~ header", err)
	}

	f.sizes.HeapSizes = heapSizes
	for id := 0; id < 64; id++ {
		if valid&(1<<id) == 0 {
			continue
		}
		rows, err := r.ReadU32LE()
		if err != nil {
			return mderrors.Load("#~ row counts", err)
		}
		if id >= TableCount {
			return mderrors.Unsupported(mderrors.PhaseLoad, fmt.Sprintf("table 0x%02x has no known schema", id))
		}
		f.sizes.Rows[id] = rows
	}
	if heapSizes&heapExtraData != 0 {
		if err := r.Skip(4); err != nil {
			return mderrors.Load("#~ extra data", err)
		}
	}

	for id := TableID(0); id < TableCount; id++ {
		t := &f.tables[id]
		t.rows = f.sizes.Rows[id]
		schema := Schema(id)
		t.offsets = make([]int, len(schema))
		t.widths = make([]int, len(schema))
		for i, c := range schema {
			t.offsets[i] = t.rowSize
			t.widths[i] = f.sizes.ColumnWidth(c)
			t.rowSize += t.widths[i]
		}
		if t.rows == 0 {
			continue
		}
		size := uint64(t.rows) * uint64(t.rowSize)
		if size > uint64(r.Remaining()) {
			return mderrors.New(mderrors.PhaseLoad, mderrors.KindOutOfBounds).
				Table(id.String()).
				Detail("%d rows of %d bytes exceed remaining %d bytes", t.rows, t.rowSize, r.Remaining()).
				Build()
		}
		t.data, _ = r.ReadBytes(int(size))
	}

	Logger().Debug("parsed table stream",
		zap.Int("tables", bits.OnesCount64(valid)),
		zap.Uint8("heap_sizes", heapSizes))
	return nil
}
