package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindNestedNotFound,
				Path:   []string{"Windows.Foundation", "Outer", "Inner"},
				Table:  "TypeRef",
				Detail: "no nested type",
			},
			contains: []string{"[resolve]", "nested_not_found", "Windows.Foundation.Outer.Inner", "TypeRef", "no nested type"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "bad stream header",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_data", "bad stream header", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_EmptyNamespaceInPath(t *testing.T) {
	err := &Error{Phase: PhaseResolve, Kind: KindNotFound, Path: []string{"", "Global"}}
	msg := err.Error()
	if !strings.Contains(msg, " at Global") {
		t.Errorf("message %q should render path without leading dot", msg)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindNotFound,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindNotFound}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindNotFound}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseResolve, Kind: KindCycle}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseResolve, Kind: KindNotFound}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}

	wrapped := Wrap(PhaseIndex, KindInvalidData, err, "build index")
	if !errors.Is(wrapped, target) {
		t.Error("errors.Is should match through Cause")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindDuplicate).
		Path("NS", "Outer", "Inner").
		Table("NestedClass").
		Value(42).
		Cause(cause).
		Detail("%d matches for %q", 2, "Inner").
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindDuplicate {
		t.Errorf("Kind = %v, want %v", err.Kind, KindDuplicate)
	}
	if len(err.Path) != 3 || err.Path[2] != "Inner" {
		t.Errorf("Path = %v, want [NS Outer Inner]", err.Path)
	}
	if err.Table != "NestedClass" {
		t.Errorf("Table = %v, want NestedClass", err.Table)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != `2 matches for "Inner"` {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, "TypeDef", 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
		if err.Table != "TypeDef" {
			t.Errorf("Table = %v, want TypeDef", err.Table)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		err := InvalidData(PhaseLoad, "", "bad magic")
		if err.Kind != KindInvalidData || err.Phase != PhaseLoad {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseLoad, "uncompressed tables")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseResolve, "type", "Windows.Foundation", "Uri")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, "Windows.Foundation.Uri") {
			t.Errorf("Detail = %q, should name the type", err.Detail)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseLoad, "no files")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("Load", func(t *testing.T) {
		cause := errors.New("short read")
		err := Load("read CLI header", cause)
		if err.Phase != PhaseLoad || !errors.Is(err, cause) {
			t.Errorf("Load = %v", err)
		}
	})
}
