// Package errors provides structured error types for the winmd library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the metadata table involved, a name path, the offending
// value (usually a row) and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindNestedNotFound).
//		Path("Windows.Foundation", "Outer", "Inner").
//		Table("TypeRef").
//		Value(row).
//		Detail("enclosing type has no nested type %q", "Inner").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseResolve, "type", "Windows.Foundation", "Uri")
//	err := errors.OutOfBounds(errors.PhaseDecode, "TypeDef", 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a Builder-free &Error{Phase, Kind} works
// as a sentinel.
package errors
