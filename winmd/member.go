package winmd

import (
	"strings"

	"github.com/wippyai/winmd/casing"
	"github.com/wippyai/winmd/metadata"
)

// Accessor prefixes carried by special-name methods.
var accessorPrefixes = []string{"get_", "put_", "add_", "remove_"}

// MethodDef is a handle to a MethodDef row.
type MethodDef struct {
	reader *TypeReader
	row    Row
}

// Row returns the row identity of the method.
func (m MethodDef) Row() Row {
	return m.row
}

// Name returns the method name as stored.
func (m MethodDef) Name() (string, error) {
	return m.reader.Str(m.row, metadata.MethodDefName)
}

// Flags returns the MethodAttributes of the method.
func (m MethodDef) Flags() (uint16, error) {
	flags, err := m.reader.flags(m.row, metadata.MethodDefFlags)
	return uint16(flags), err
}

// Kind classifies property setters (put_) and event removers (remove_).
func (m MethodDef) Kind() (casing.MethodKind, error) {
	name, special, err := m.special()
	if err != nil || !special {
		return casing.MethodNormal, err
	}
	switch {
	case strings.HasPrefix(name, "put_"):
		return casing.MethodSet, nil
	case strings.HasPrefix(name, "remove_"):
		return casing.MethodRemove, nil
	}
	return casing.MethodNormal, nil
}

// BaseName returns the name without its accessor prefix for special-name
// methods, and the stored name otherwise.
func (m MethodDef) BaseName() (string, error) {
	name, special, err := m.special()
	if err != nil || !special {
		return name, err
	}
	for _, prefix := range accessorPrefixes {
		if base, ok := strings.CutPrefix(name, prefix); ok && base != "" {
			return base, nil
		}
	}
	return name, nil
}

func (m MethodDef) special() (string, bool, error) {
	name, err := m.Name()
	if err != nil {
		return "", false, err
	}
	flags, err := m.Flags()
	if err != nil {
		return "", false, err
	}
	return name, flags&metadata.MethodSpecialName != 0, nil
}

func (m MethodDef) String() string {
	return m.row.String()
}

// Field is a handle to a Field row.
type Field struct {
	reader *TypeReader
	row    Row
}

// Row returns the row identity of the field.
func (f Field) Row() Row {
	return f.row
}

// Name returns the field name.
func (f Field) Name() (string, error) {
	return f.reader.Str(f.row, metadata.FieldName)
}

// Flags returns the FieldAttributes of the field.
func (f Field) Flags() (uint16, error) {
	flags, err := f.reader.flags(f.row, metadata.FieldFlags)
	return uint16(flags), err
}

// IsLiteral reports whether the field is a compile-time constant.
func (f Field) IsLiteral() (bool, error) {
	flags, err := f.Flags()
	return flags&metadata.FieldLiteral != 0, err
}

func (f Field) String() string {
	return f.row.String()
}
