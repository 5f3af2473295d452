// Package winmd is the root of a Go toolkit for reading ECMA-335 metadata
// (.winmd and managed PE images) and resolving the type references inside it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	winmd/               Root package (documentation only)
//	├── metadata/        PE, metadata root, stream and table decoding
//	│   ├── internal/binary/  Bounds-checked little-endian reader and writer
//	│   └── metadatatest/     In-memory image builder for tests
//	├── winmd/           TypeReader: name index, nested index, TypeRef resolution
//	├── casing/          PascalCase to snake_case and UPPER_SNAKE_CASE
//	├── gen/             Output identifiers for generated bindings
//	├── errors/          Structured error types for debugging
//	└── cmd/winmd/       Command line inspector and interactive browser
//
// # Quick Start
//
// Load metadata and resolve every reference:
//
//	r, err := winmd.Load("Windows.Foundation.winmd", "Windows.Storage.winmd")
//	if err != nil {
//		return err
//	}
//	for ref := range r.TypeRefs() {
//		def, err := ref.Resolve()
//		if err != nil {
//			return err
//		}
//		path, _ := gen.TypePath(def)
//		fmt.Println(ref, "->", path)
//	}
//
// # Error Handling
//
// Every failure is an *errors.Error carrying the phase (load, decode, index,
// resolve, gen), a kind and the offending table row. Match categories with
// errors.Is against the sentinels in the winmd package:
//
//	if errors.Is(err, winmd.ErrNestedTypeNotFound) {
//		...
//	}
//
// # Concurrency
//
// Parsing and indexing happen once. A TypeReader is never modified after New
// returns and may be shared by any number of goroutines. Package loggers are
// set with SetLogger before loading.
package winmd
