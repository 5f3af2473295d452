package binary

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Position() != 3 {
		t.Errorf("final position: got %d, want 3", r.Position())
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}

	if r.Position() != 3 {
		t.Errorf("position: got %d, want 3", r.Position())
	}

	_, err = r.ReadBytes(10)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF for reading past end, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("failed read moved position to %d", r.Position())
	}
}

func TestReaderFixedWidth(t *testing.T) {
	w := NewWriter()
	w.WriteU16LE(0xBEEF)
	w.WriteU32LE(0xDEADBEEF)
	w.WriteU64LE(0x0102030405060708)
	w.WriteUint(0x1234, 2)
	w.WriteUint(0x12345678, 4)

	r := NewReader(w.Bytes())
	u16, err := r.ReadU16LE()
	if err != nil || u16 != 0xBEEF {
		t.Errorf("ReadU16LE = 0x%x, %v", u16, err)
	}
	u32, err := r.ReadU32LE()
	if err != nil || u32 != 0xDEADBEEF {
		t.Errorf("ReadU32LE = 0x%x, %v", u32, err)
	}
	u64, err := r.ReadU64LE()
	if err != nil || u64 != 0x0102030405060708 {
		t.Errorf("ReadU64LE = 0x%x, %v", u64, err)
	}
	v, err := r.ReadUint(2)
	if err != nil || v != 0x1234 {
		t.Errorf("ReadUint(2) = 0x%x, %v", v, err)
	}
	v, err = r.ReadUint(4)
	if err != nil || v != 0x12345678 {
		t.Errorf("ReadUint(4) = 0x%x, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
	if _, err := r.ReadUint(3); err == nil {
		t.Error("expected error for width 3")
	}
}

func TestReaderReadCompressed(t *testing.T) {
	// Examples from ECMA-335 II.23.2.
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x03}, 0x03},
		{[]byte{0x7F}, 0x7F},
		{[]byte{0x80, 0x80}, 0x80},
		{[]byte{0xAE, 0x57}, 0x2E57},
		{[]byte{0xBF, 0xFF}, 0x3FFF},
		{[]byte{0xC0, 0x00, 0x40, 0x00}, 0x4000},
		{[]byte{0xDF, 0xFF, 0xFF, 0xFF}, 0x1FFFFFFF},
	}

	for _, tt := range tests {
		r := NewReader(tt.encoded)
		got, err := r.ReadCompressed()
		if err != nil {
			t.Errorf("ReadCompressed(%x): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadCompressed(%x) = 0x%x, want 0x%x", tt.encoded, got, tt.want)
		}

		w := NewWriter()
		w.WriteCompressed(tt.want)
		if !bytes.Equal(w.Bytes(), tt.encoded) {
			t.Errorf("WriteCompressed(0x%x) = %x, want %x", tt.want, w.Bytes(), tt.encoded)
		}
	}
}

func TestReaderReadCompressedInvalid(t *testing.T) {
	r := NewReader([]byte{0xE0})
	if _, err := r.ReadCompressed(); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}

	r = NewReader([]byte{0xC0, 0x00})
	if _, err := r.ReadCompressed(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderReadCString(t *testing.T) {
	r := NewReader([]byte("#~\x00\x00#Strings\x00"))
	s, err := r.ReadCString()
	if err != nil || s != "#~" {
		t.Fatalf("ReadCString = %q, %v", s, err)
	}
	if err := r.Align(4); err != nil {
		t.Fatalf("Align: %v", err)
	}
	s, err = r.ReadCString()
	if err != nil || s != "#Strings" {
		t.Fatalf("ReadCString = %q, %v", s, err)
	}

	r = NewReader([]byte("abc"))
	if _, err := r.ReadCString(); err == nil {
		t.Error("expected error for unterminated string")
	}
}

func TestReaderReset(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	if err := r.Reset(2); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	b, _ := r.ReadByte()
	if b != 3 {
		t.Errorf("after Reset(2) read %d, want 3", b)
	}
	if err := r.Reset(5); err == nil {
		t.Error("expected error resetting past end")
	}
	if err := r.Skip(-10); err == nil {
		t.Error("expected error skipping before start")
	}
}

func TestWriterAlign(t *testing.T) {
	w := NewWriter()
	w.WriteCString("#~")
	w.Align(4)
	if w.Len() != 4 {
		t.Errorf("Len after align = %d, want 4", w.Len())
	}
	w.Align(4)
	if w.Len() != 4 {
		t.Errorf("Align on boundary changed length to %d", w.Len())
	}
}

func TestParseError(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, _ = r.ReadByte()
	cause := errors.New("bad signature")
	err := r.WrapError("metadata root", cause)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Position != 1 || pe.Section != "metadata root" {
		t.Errorf("ParseError = %+v", pe)
	}
	if !errors.Is(err, cause) {
		t.Error("ParseError should unwrap to cause")
	}
	if got := err.Error(); got != "metadata: metadata root at position 1: bad signature" {
		t.Errorf("Error() = %q", got)
	}
}
