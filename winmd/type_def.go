package winmd

import (
	"slices"

	"github.com/wippyai/winmd/errors"
	"github.com/wippyai/winmd/metadata"
)

// TypeDef is a handle to a TypeDef row, the authoritative definition of a type.
type TypeDef struct {
	reader *TypeReader
	row    Row
}

// Row returns the row identity of the definition.
func (t TypeDef) Row() Row {
	return t.row
}

// Reader returns the database the handle points into.
func (t TypeDef) Reader() *TypeReader {
	return t.reader
}

// Name returns the namespace and name of the definition.
func (t TypeDef) Name() (TypeName, error) {
	return t.reader.typeName(t.row, metadata.TypeDefNamespace, metadata.TypeDefName)
}

// Flags returns the TypeAttributes of the definition.
func (t TypeDef) Flags() (uint32, error) {
	return t.reader.flags(t.row, metadata.TypeDefFlags)
}

// IsInterface reports whether the definition is an interface.
func (t TypeDef) IsInterface() (bool, error) {
	flags, err := t.Flags()
	return flags&metadata.TypeInterface != 0, err
}

// IsNested reports whether the definition is listed in the NestedClass table.
func (t TypeDef) IsNested() bool {
	_, ok := t.reader.enclosing[t.row]
	return ok
}

// Enclosing returns the type this definition is nested in.
func (t TypeDef) Enclosing() (TypeDef, bool) {
	row, ok := t.reader.enclosing[t.row]
	if !ok {
		return TypeDef{}, false
	}
	return TypeDef{reader: t.reader, row: row}, true
}

// NestedTypes returns the directly nested definitions in NestedClass order.
func (t TypeDef) NestedTypes() []TypeDef {
	rows := t.reader.nested[t.row]
	defs := make([]TypeDef, len(rows))
	for i, row := range rows {
		defs[i] = TypeDef{reader: t.reader, row: row}
	}
	return defs
}

// Path returns the namespace followed by the names of every enclosing type,
// outermost first, and finally this type's name.
func (t TypeDef) Path() ([]string, error) {
	var names []string
	visited := []Row{}
	cur := t
	for {
		if slices.Contains(visited, cur.row) {
			return nil, errors.New(errors.PhaseResolve, errors.KindCycle).
				Table(metadata.TableNestedClass.String()).
				Value(t.row).
				Detail("nesting of %s loops through %s", t.row, cur.row).
				Build()
		}
		visited = append(visited, cur.row)

		name, err := cur.Name()
		if err != nil {
			return nil, err
		}
		names = append(names, name.Name)

		outer, ok := cur.Enclosing()
		if !ok {
			names = append(names, name.Namespace)
			break
		}
		cur = outer
	}
	slices.Reverse(names)
	return names, nil
}

// Extends returns the resolved base type. The second result is false for
// types without a base (interfaces, System.Object). Generic instantiations
// stored as TypeSpec are not resolved.
func (t TypeDef) Extends() (TypeDef, bool, error) {
	f := t.reader.File(t.row)
	ci, err := f.Decode(metadata.TableTypeDef, t.row.Index, metadata.TypeDefExtends)
	if err != nil {
		return TypeDef{}, false, err
	}
	if ci.IsNull() {
		return TypeDef{}, false, nil
	}

	target := Row{File: t.row.File, Table: ci.Table, Index: ci.Row()}
	switch ci.Table {
	case metadata.TableTypeDef:
		return TypeDef{reader: t.reader, row: target}, true, nil
	case metadata.TableTypeRef:
		def, err := t.reader.Resolve(TypeRef{reader: t.reader, row: target})
		if err != nil {
			return TypeDef{}, false, err
		}
		return def, true, nil
	default:
		return TypeDef{}, false, errors.Unsupported(errors.PhaseResolve, "base type stored as "+ci.Table.String())
	}
}

// Methods returns the MethodDef rows owned by the definition.
func (t TypeDef) Methods() ([]MethodDef, error) {
	begin, end, err := t.reader.File(t.row).List(metadata.TableTypeDef, t.row.Index, metadata.TypeDefMethodList)
	if err != nil {
		return nil, err
	}
	methods := make([]MethodDef, 0, end-begin)
	for i := begin; i < end; i++ {
		methods = append(methods, MethodDef{reader: t.reader, row: Row{File: t.row.File, Table: metadata.TableMethodDef, Index: i}})
	}
	return methods, nil
}

// Fields returns the Field rows owned by the definition.
func (t TypeDef) Fields() ([]Field, error) {
	begin, end, err := t.reader.File(t.row).List(metadata.TableTypeDef, t.row.Index, metadata.TypeDefFieldList)
	if err != nil {
		return nil, err
	}
	fields := make([]Field, 0, end-begin)
	for i := begin; i < end; i++ {
		fields = append(fields, Field{reader: t.reader, row: Row{File: t.row.File, Table: metadata.TableField, Index: i}})
	}
	return fields, nil
}

// Equal reports whether both handles address the same row.
func (t TypeDef) Equal(other TypeDef) bool {
	return t.row == other.row
}

// Compare orders handles by row.
func (t TypeDef) Compare(other TypeDef) int {
	return t.row.Compare(other.row)
}

func (t TypeDef) String() string {
	return t.row.String()
}
