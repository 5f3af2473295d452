package winmd

import (
	"fmt"
	"iter"
	"math"
	"os"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/winmd/errors"
	"github.com/wippyai/winmd/metadata"
)

// TypeReader is the loaded metadata database: one or more parsed images plus
// the top-level name index and the nested-type index. It is built once by New
// and never mutated afterwards, so all methods are safe for concurrent use.
type TypeReader struct {
	files      []*metadata.File
	types      map[string]map[string]Row
	nested     map[Row][]Row
	enclosing  map[Row]Row
	namespaces []string
}

// Load reads and parses the images at paths and builds a TypeReader over them.
func Load(paths ...string) (*TypeReader, error) {
	files := make([]*metadata.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Load(fmt.Sprintf("read %s", path), err)
		}
		f, err := metadata.Parse(data)
		if err != nil {
			return nil, errors.Load(fmt.Sprintf("parse %s", path), err)
		}
		Logger().Debug("loaded metadata file",
			zap.String("path", path),
			zap.Uint32("typedefs", f.Rows(metadata.TableTypeDef)))
		files = append(files, f)
	}
	return New(files...)
}

// New builds the name and nested-type indexes over files. Rows carry the
// position of their file in this list.
func New(files ...*metadata.File) (*TypeReader, error) {
	if len(files) == 0 {
		return nil, errors.InvalidInput(errors.PhaseIndex, "no metadata files")
	}
	if len(files) > math.MaxUint16 {
		return nil, errors.InvalidInput(errors.PhaseIndex, fmt.Sprintf("%d metadata files exceed the limit of %d", len(files), math.MaxUint16))
	}

	r := &TypeReader{
		files:     files,
		types:     make(map[string]map[string]Row),
		nested:    make(map[Row][]Row),
		enclosing: make(map[Row]Row),
	}

	for i, f := range files {
		if err := r.indexNested(uint16(i), f); err != nil {
			return nil, err
		}
	}
	for i, f := range files {
		if err := r.indexTypes(uint16(i), f); err != nil {
			return nil, err
		}
	}

	for ns := range r.types {
		r.namespaces = append(r.namespaces, ns)
	}
	slices.Sort(r.namespaces)

	Logger().Debug("indexed metadata",
		zap.Int("files", len(files)),
		zap.Int("namespaces", len(r.namespaces)),
		zap.Int("enclosing_types", len(r.nested)))

	return r, nil
}

func (r *TypeReader) indexNested(file uint16, f *metadata.File) error {
	typeDefs := f.Rows(metadata.TableTypeDef)
	for i := uint32(0); i < f.Rows(metadata.TableNestedClass); i++ {
		nestedIdx, err := f.Uint(metadata.TableNestedClass, i, metadata.NestedClassNested)
		if err != nil {
			return errors.Wrap(errors.PhaseIndex, errors.KindInvalidData, err, "read nested class")
		}
		enclosingIdx, err := f.Uint(metadata.TableNestedClass, i, metadata.NestedClassEnclosing)
		if err != nil {
			return errors.Wrap(errors.PhaseIndex, errors.KindInvalidData, err, "read enclosing class")
		}
		if nestedIdx == 0 || nestedIdx > typeDefs || enclosingIdx == 0 || enclosingIdx > typeDefs {
			return errors.New(errors.PhaseIndex, errors.KindOutOfBounds).
				Table(metadata.TableNestedClass.String()).
				Value(Row{File: file, Table: metadata.TableNestedClass, Index: i}).
				Detail("nested %d / enclosing %d outside %d type definitions", nestedIdx, enclosingIdx, typeDefs).
				Build()
		}

		nested := Row{File: file, Table: metadata.TableTypeDef, Index: nestedIdx - 1}
		enclosing := Row{File: file, Table: metadata.TableTypeDef, Index: enclosingIdx - 1}
		if prev, ok := r.enclosing[nested]; ok {
			Logger().Warn("type nested in more than one enclosing type",
				zap.Stringer("nested", nested),
				zap.Stringer("first", prev),
				zap.Stringer("ignored", enclosing))
			continue
		}
		r.enclosing[nested] = enclosing
		r.nested[enclosing] = append(r.nested[enclosing], nested)
	}
	return nil
}

func (r *TypeReader) indexTypes(file uint16, f *metadata.File) error {
	for i := uint32(0); i < f.Rows(metadata.TableTypeDef); i++ {
		row := Row{File: file, Table: metadata.TableTypeDef, Index: i}
		if _, nested := r.enclosing[row]; nested {
			continue
		}
		name, err := f.String(metadata.TableTypeDef, i, metadata.TypeDefName)
		if err != nil {
			return errors.Wrap(errors.PhaseIndex, errors.KindInvalidData, err, "read type name")
		}
		namespace, err := f.String(metadata.TableTypeDef, i, metadata.TypeDefNamespace)
		if err != nil {
			return errors.Wrap(errors.PhaseIndex, errors.KindInvalidData, err, "read type namespace")
		}

		byName := r.types[namespace]
		if byName == nil {
			byName = make(map[string]Row)
			r.types[namespace] = byName
		}
		if prev, ok := byName[name]; ok {
			Logger().Warn("duplicate type definition",
				zap.String("namespace", namespace),
				zap.String("name", name),
				zap.Stringer("kept", prev),
				zap.Stringer("ignored", row))
			continue
		}
		byName[name] = row
	}
	return nil
}

// Files returns the number of loaded images.
func (r *TypeReader) Files() int {
	return len(r.files)
}

// File returns the parsed image a row belongs to.
func (r *TypeReader) File(row Row) *metadata.File {
	return r.files[row.File]
}

// Decode decodes the ResolutionScope coded index stored at column of row.
// The error names the offending row and matches ErrScopeDecode.
func (r *TypeReader) Decode(row Row, column int) (ResolutionScope, error) {
	fail := func(cause error, detail string, args ...any) (ResolutionScope, error) {
		return ResolutionScope{}, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Table(row.Table.String()).
			Value(row).
			Cause(cause).
			Detail(detail, args...).
			Build()
	}

	if int(row.File) >= len(r.files) {
		return fail(nil, "row %s belongs to no loaded file", row)
	}
	ci, err := r.files[row.File].Decode(row.Table, row.Index, column)
	if err != nil {
		return fail(err, "decode resolution scope of %s", row)
	}
	if ci.Kind != metadata.CodedResolutionScope {
		return fail(nil, "column %d of %s is a %s index, not ResolutionScope", column, row, ci.Kind)
	}
	if ci.IsNull() {
		return fail(nil, "null resolution scope in %s", row)
	}
	return ResolutionScope{
		Kind: scopeKinds[ci.Table],
		Row:  Row{File: row.File, Table: ci.Table, Index: ci.Row()},
	}, nil
}

// Str returns the string-heap value stored at column of row. The result shares
// memory with the loaded heap.
func (r *TypeReader) Str(row Row, column int) (string, error) {
	if int(row.File) >= len(r.files) {
		return "", errors.OutOfBounds(errors.PhaseDecode, row.Table.String(), int(row.File), len(r.files))
	}
	return r.files[row.File].String(row.Table, row.Index, column)
}

func (r *TypeReader) flags(row Row, column int) (uint32, error) {
	return r.files[row.File].Uint(row.Table, row.Index, column)
}

// FindTypeDef looks up a top-level type by exact namespace and name.
func (r *TypeReader) FindTypeDef(namespace, name string) (TypeDef, bool) {
	row, ok := r.types[namespace][name]
	if !ok {
		return TypeDef{}, false
	}
	return TypeDef{reader: r, row: row}, true
}

// ExpectTypeDef looks up a top-level type by exact namespace and name and
// fails with ErrTypeNotFound when no loaded file defines it.
func (r *TypeReader) ExpectTypeDef(namespace, name string) (TypeDef, error) {
	if def, ok := r.FindTypeDef(namespace, name); ok {
		return def, nil
	}
	return TypeDef{}, errors.NotFound(errors.PhaseResolve, "type", namespace, name)
}

// NestedTypes returns the directly nested type rows of an enclosing TypeDef in
// NestedClass table order. The slice must not be modified.
func (r *TypeReader) NestedTypes(enclosing Row) []Row {
	return r.nested[enclosing]
}

// Namespaces returns the sorted namespaces that define top-level types.
func (r *TypeReader) Namespaces() []string {
	return r.namespaces
}

// NamespaceTypes returns the top-level types of namespace sorted by name.
func (r *TypeReader) NamespaceTypes(namespace string) []TypeDef {
	byName := r.types[namespace]
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	defs := make([]TypeDef, 0, len(names))
	for _, name := range names {
		defs = append(defs, TypeDef{reader: r, row: byName[name]})
	}
	return defs
}

// TypeDefs yields every type definition of every file in row order.
func (r *TypeReader) TypeDefs() iter.Seq[TypeDef] {
	return func(yield func(TypeDef) bool) {
		for row := range r.rows(metadata.TableTypeDef) {
			if !yield(TypeDef{reader: r, row: row}) {
				return
			}
		}
	}
}

// TypeRefs yields every type reference of every file in row order.
func (r *TypeReader) TypeRefs() iter.Seq[TypeRef] {
	return func(yield func(TypeRef) bool) {
		for row := range r.rows(metadata.TableTypeRef) {
			if !yield(TypeRef{reader: r, row: row}) {
				return
			}
		}
	}
}

func (r *TypeReader) rows(t metadata.TableID) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i, f := range r.files {
			for j := uint32(0); j < f.Rows(t); j++ {
				if !yield(Row{File: uint16(i), Table: t, Index: j}) {
					return
				}
			}
		}
	}
}

// TypeRef returns a handle for a TypeRef row.
func (r *TypeReader) TypeRef(row Row) TypeRef {
	return TypeRef{reader: r, row: row}
}

// TypeDef returns a handle for a TypeDef row.
func (r *TypeReader) TypeDef(row Row) TypeDef {
	return TypeDef{reader: r, row: row}
}
