// Package winmd resolves type references across ECMA-335 metadata images
// such as Windows Runtime .winmd files.
//
// A TypeReader is built once from one or more parsed images and is immutable
// afterwards. It indexes top-level type definitions by namespace and name and
// nested definitions by their enclosing type. Row handles (TypeDef, TypeRef,
// MethodDef, Field) are small values that borrow the reader.
//
//	r, err := winmd.Load("Windows.Foundation.winmd")
//	if err != nil {
//		return err
//	}
//	for ref := range r.TypeRefs() {
//		def, err := ref.Resolve()
//		...
//	}
//
// Errors are *errors.Error values from github.com/wippyai/winmd/errors and
// match the sentinels declared here with errors.Is.
package winmd
