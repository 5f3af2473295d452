// Package gen derives output identifiers for generated bindings from resolved
// metadata: module paths from namespaces, snake_case method names and
// UPPER_SNAKE_CASE constants.
package gen

import (
	"fmt"
	"strings"

	"github.com/wippyai/winmd/casing"
	"github.com/wippyai/winmd/errors"
	"github.com/wippyai/winmd/winmd"
)

// ModulePath converts a dotted namespace into a module path:
// Windows.Foundation.Collections becomes windows::foundation::collections.
// Empty segments are dropped.
func ModulePath(namespace string) string {
	var parts []string
	for _, seg := range strings.Split(namespace, ".") {
		if seg != "" {
			parts = append(parts, casing.ToSnake(seg))
		}
	}
	return strings.Join(parts, "::")
}

// MethodName returns the snake_case name of a method. Property setters get a
// set_ prefix and event removers a remove_ prefix; other accessor prefixes
// are dropped.
func MethodName(m winmd.MethodDef) (string, error) {
	base, err := m.BaseName()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", errors.New(errors.PhaseGen, errors.KindInvalidInput).
			Table("MethodDef").
			Value(m.Row()).
			Detail("method has an empty name").
			Build()
	}
	kind, err := m.Kind()
	if err != nil {
		return "", err
	}
	return casing.MethodToSnake(base, kind), nil
}

// ConstantName returns the UPPER_SNAKE_CASE form of a field or enumerator
// name. It panics on an empty name.
func ConstantName(name string) string {
	return casing.ToUpper(name)
}

// TypePath returns the module path of a type followed by its name. Nested
// types live in the module of their outermost type and join the enclosing
// names with underscores: A.Outer/Inner becomes a::Outer_Inner.
func TypePath(def winmd.TypeDef) (string, error) {
	path, err := def.Path()
	if err != nil {
		return "", err
	}
	name := strings.Join(path[1:], "_")
	if module := ModulePath(path[0]); module != "" {
		return fmt.Sprintf("%s::%s", module, name), nil
	}
	return name, nil
}
