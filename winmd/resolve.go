package winmd

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/winmd/errors"
	"github.com/wippyai/winmd/metadata"
)

// Sentinel errors for errors.Is. Each matches every error of the same phase
// and kind regardless of its detail.
var (
	ErrScopeDecode         = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}
	ErrTypeNotFound        = &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindNotFound}
	ErrNestedTypeNotFound  = &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindNestedNotFound}
	ErrDuplicateNestedType = &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindDuplicate}
	ErrNestingCycle        = &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindCycle}
)

// Resolve maps a type reference to the definition it denotes.
//
// A reference scoped to a Module, ModuleRef or AssemblyRef is looked up by
// namespace and name in the top-level index. A reference scoped to another
// TypeRef is nested: the chain of enclosing references is followed to its
// outermost member, that one is resolved at top level, and each nested name
// is then matched among the nested types of the definition found so far.
// Nested names must be unique within their enclosing type.
func (r *TypeReader) Resolve(ref TypeRef) (TypeDef, error) {
	chain := []Row{ref.row}
	outer := ref.row
	for {
		scope, err := r.Decode(outer, metadata.TypeRefScope)
		if err != nil {
			return TypeDef{}, err
		}
		if scope.Kind != ScopeTypeRef {
			break
		}
		if slices.Contains(chain, scope.Row) {
			return TypeDef{}, errors.New(errors.PhaseResolve, errors.KindCycle).
				Table(metadata.TableTypeRef.String()).
				Value(ref.row).
				Detail("resolution scope of %s loops back to %s", outer, scope.Row).
				Build()
		}
		chain = append(chain, scope.Row)
		outer = scope.Row
	}

	name, err := r.typeName(outer, metadata.TypeRefNamespace, metadata.TypeRefName)
	if err != nil {
		return TypeDef{}, err
	}
	def, ok := r.FindTypeDef(name.Namespace, name.Name)
	if !ok {
		return TypeDef{}, errors.New(errors.PhaseResolve, errors.KindNotFound).
			Path(name.Namespace, name.Name).
			Table(metadata.TableTypeRef.String()).
			Value(outer).
			Detail("type %q not found", name).
			Build()
	}

	path := []string{name.Namespace, name.Name}
	for i := len(chain) - 2; i >= 0; i-- {
		nestedName, err := r.Str(chain[i], metadata.TypeRefName)
		if err != nil {
			return TypeDef{}, err
		}
		path = append(path, nestedName)
		if def, err = r.findNested(def, nestedName, chain[i], path); err != nil {
			return TypeDef{}, err
		}
	}

	if ce := Logger().Check(zap.DebugLevel, "resolved type reference"); ce != nil {
		ce.Write(zap.Stringer("ref", ref.row), zap.Stringer("def", def.row), zap.Int("depth", len(chain)-1))
	}
	return def, nil
}

// findNested returns the single type named name nested directly in enclosing.
func (r *TypeReader) findNested(enclosing TypeDef, name string, ref Row, path []string) (TypeDef, error) {
	var (
		match Row
		found int
	)
	for _, row := range r.nested[enclosing.row] {
		candidate, err := r.Str(row, metadata.TypeDefName)
		if err != nil {
			return TypeDef{}, err
		}
		if candidate != name {
			continue
		}
		if found == 0 {
			match = row
		}
		found++
	}

	switch found {
	case 0:
		return TypeDef{}, errors.New(errors.PhaseResolve, errors.KindNestedNotFound).
			Path(path...).
			Table(metadata.TableTypeRef.String()).
			Value(ref).
			Detail("no type %q nested in %s", name, enclosing.row).
			Build()
	case 1:
		return TypeDef{reader: r, row: match}, nil
	default:
		return TypeDef{}, errors.New(errors.PhaseResolve, errors.KindDuplicate).
			Path(path...).
			Table(metadata.TableNestedClass.String()).
			Value(ref).
			Detail("%d types named %q nested in %s", found, name, enclosing.row).
			Build()
	}
}
