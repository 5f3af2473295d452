package winmd_test

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/winmd/errors"
	"github.com/wippyai/winmd/metadata"
	"github.com/wippyai/winmd/winmd"
)

func TestResolve(t *testing.T) {
	r := newReader(t)

	tests := []struct {
		name string
		ref  uint32
		want winmd.Row
		path []string
	}{
		{"assembly ref across files", refObject, typeDefRow(1, 1), []string{"System", "Object"}},
		{"module scope", refUri, typeDefRow(0, 2), []string{"Windows.Foundation", "Uri"}},
		{"module ref scope", refUriViaModuleRef, typeDefRow(0, 2), []string{"Windows.Foundation", "Uri"}},
		{"top level", refOuter, typeDefRow(0, 3), []string{"A", "Outer"}},
		{"nested", refInner, typeDefRow(0, 4), []string{"A", "Outer", "Inner"}},
		{"doubly nested", refDeep, typeDefRow(0, 5), []string{"A", "Outer", "Inner", "Deep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := typeRef(r, 0, tt.ref).Resolve()
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if def.Row() != tt.want {
				t.Errorf("Resolve = %s, want %s", def.Row(), tt.want)
			}
			path, err := def.Path()
			if err != nil {
				t.Fatalf("Path: %v", err)
			}
			if diff := cmp.Diff(tt.path, path); diff != "" {
				t.Errorf("Path (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := newReader(t)

	tests := []struct {
		name string
		ref  uint32
		want error
		path []string
	}{
		{"top level not found", refNowhere, winmd.ErrTypeNotFound, []string{"A", "Nowhere"}},
		{"enclosing not found", refInnerOfNowhere, winmd.ErrTypeNotFound, []string{"A", "Nowhere"}},
		{"nested not found", refMissing, winmd.ErrNestedTypeNotFound, []string{"A", "Outer", "Missing"}},
		{"duplicate nested", refTwin, winmd.ErrDuplicateNestedType, []string{"A", "Outer", "Twin"}},
		{"scope cycle", refCycleA, winmd.ErrNestingCycle, nil},
		{"self scope", refSelf, winmd.ErrNestingCycle, nil},
		{"null scope", refNullScope, winmd.ErrScopeDecode, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := typeRef(r, 0, tt.ref).Resolve()
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("Resolve error = %v, want %v", err, tt.want)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if tt.path != nil {
				if diff := cmp.Diff(tt.path, e.Path); diff != "" {
					t.Errorf("Path (-want +got):\n%s", diff)
				}
			}
			if e.Value == nil {
				t.Error("error does not name the offending row")
			}
		})
	}
}

func TestResolveIsStable(t *testing.T) {
	r := newReader(t)

	want := map[winmd.Row]winmd.Row{}
	for ref := range r.TypeRefs() {
		if def, err := ref.Resolve(); err == nil {
			want[ref.Row()] = def.Row()
		}
	}
	if len(want) != 6 {
		t.Fatalf("resolved %d references, want 6", len(want))
	}

	var wg sync.WaitGroup
	got := make([]map[winmd.Row]winmd.Row, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := map[winmd.Row]winmd.Row{}
			for ref := range r.TypeRefs() {
				if def, err := r.Resolve(ref); err == nil {
					m[ref.Row()] = def.Row()
				}
			}
			got[i] = m
		}(i)
	}
	wg.Wait()

	for i, m := range got {
		if diff := cmp.Diff(want, m); diff != "" {
			t.Errorf("goroutine %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestResolvedNestedIsListed(t *testing.T) {
	r := newReader(t)

	def, err := typeRef(r, 0, refDeep).Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	enclosing, ok := def.Enclosing()
	if !ok {
		t.Fatal("Deep has no enclosing type")
	}
	found := false
	for _, row := range r.NestedTypes(enclosing.Row()) {
		if row == def.Row() {
			found = true
		}
	}
	if !found {
		t.Errorf("%s not among the nested types of %s", def.Row(), enclosing.Row())
	}
}

func TestScope(t *testing.T) {
	r := newReader(t)

	tests := []struct {
		ref  uint32
		want winmd.ResolutionScope
	}{
		{refObject, winmd.ResolutionScope{Kind: winmd.ScopeAssemblyRef, Row: winmd.Row{Table: metadata.TableAssemblyRef}}},
		{refUri, winmd.ResolutionScope{Kind: winmd.ScopeModule, Row: winmd.Row{Table: metadata.TableModule}}},
		{refUriViaModuleRef, winmd.ResolutionScope{Kind: winmd.ScopeModuleRef, Row: winmd.Row{Table: metadata.TableModuleRef}}},
		{refInner, winmd.ResolutionScope{Kind: winmd.ScopeTypeRef, Row: winmd.Row{Table: metadata.TableTypeRef, Index: refOuter - 1}}},
	}
	for _, tt := range tests {
		got, err := typeRef(r, 0, tt.ref).Scope()
		if err != nil {
			t.Fatalf("Scope(%d): %v", tt.ref, err)
		}
		if got != tt.want {
			t.Errorf("Scope(%d) = %+v, want %+v", tt.ref, got, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	r := newReader(t)
	row := typeRef(r, 0, refUri).Row()

	if _, err := r.Decode(row, metadata.TypeRefName); !stderrors.Is(err, winmd.ErrScopeDecode) {
		t.Errorf("Decode of a string column: %v", err)
	}
	if _, err := r.Decode(typeDefRow(0, 2), metadata.TypeDefExtends); !stderrors.Is(err, winmd.ErrScopeDecode) {
		t.Errorf("Decode of a TypeDefOrRef column: %v", err)
	}
	if _, err := r.Decode(winmd.Row{File: 9, Table: metadata.TableTypeRef}, metadata.TypeRefScope); !stderrors.Is(err, winmd.ErrScopeDecode) {
		t.Errorf("Decode of a foreign row: %v", err)
	}
}

func TestTypeRefName(t *testing.T) {
	r := newReader(t)

	name, err := typeRef(r, 0, refUri).Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name.String() != "Windows.Foundation.Uri" {
		t.Errorf("Name = %s", name)
	}

	name, err = typeRef(r, 0, refInner).Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != (winmd.TypeName{Name: "Inner"}) || name.String() != "Inner" {
		t.Errorf("nested Name = %+v", name)
	}
}
