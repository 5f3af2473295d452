package winmd

import "github.com/wippyai/winmd/metadata"

// TypeName is a (namespace, name) pair. Nested types have an empty namespace.
type TypeName struct {
	Namespace string
	Name      string
}

func (n TypeName) String() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

// TypeRef is a handle to a TypeRef row. It does not own the reader; the
// reader must outlive every handle into it.
type TypeRef struct {
	reader *TypeReader
	row    Row
}

// Row returns the row identity of the reference.
func (t TypeRef) Row() Row {
	return t.row
}

// Reader returns the database the handle points into.
func (t TypeRef) Reader() *TypeReader {
	return t.reader
}

// Scope decodes the reference's resolution scope.
func (t TypeRef) Scope() (ResolutionScope, error) {
	return t.reader.Decode(t.row, metadata.TypeRefScope)
}

// Name returns the namespace and name the reference carries.
func (t TypeRef) Name() (TypeName, error) {
	return t.reader.typeName(t.row, metadata.TypeRefNamespace, metadata.TypeRefName)
}

// Resolve returns the definition the reference denotes.
func (t TypeRef) Resolve() (TypeDef, error) {
	return t.reader.Resolve(t)
}

// Equal reports whether both handles address the same row.
func (t TypeRef) Equal(other TypeRef) bool {
	return t.row == other.row
}

// Compare orders handles by row.
func (t TypeRef) Compare(other TypeRef) int {
	return t.row.Compare(other.row)
}

func (t TypeRef) String() string {
	return t.row.String()
}

func (r *TypeReader) typeName(row Row, nsCol, nameCol int) (TypeName, error) {
	namespace, err := r.Str(row, nsCol)
	if err != nil {
		return TypeName{}, err
	}
	name, err := r.Str(row, nameCol)
	if err != nil {
		return TypeName{}, err
	}
	return TypeName{Namespace: namespace, Name: name}, nil
}
