// Package casing converts PascalCase metadata identifiers into snake_case and
// UPPER_SNAKE_CASE output identifiers.
//
// Word boundaries are found by walking each character with its neighbours. A
// boundary goes before an uppercase character when the previous character is
// lowercase, or when the next character is lowercase and at least two
// characters were emitted since the last boundary. The second rule keeps
// acronyms together: UIProgramming becomes ui_programming and CreateUInt8Array
// becomes create_uint8_array.
package casing

import (
	"strings"
	"unicode"
)

// MethodKind selects the prefix MethodToSnake prepends.
type MethodKind uint8

const (
	MethodNormal MethodKind = iota
	MethodSet
	MethodRemove
)

func (k MethodKind) String() string {
	switch k {
	case MethodSet:
		return "set"
	case MethodRemove:
		return "remove"
	default:
		return "normal"
	}
}

// Identifiers the boundary walk gets wrong, mapped to their word form.
var exceptions = map[string]string{
	"WinRT": "winrt",
}

// ToSnake converts name to snake_case. It panics on an empty name.
func ToSnake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	appendCase(&b, name, unicode.ToLower)
	return b.String()
}

// ToUpper converts name to UPPER_SNAKE_CASE. It panics on an empty name.
func ToUpper(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	appendCase(&b, name, unicode.ToUpper)
	return b.String()
}

// MethodToSnake converts a method name to snake_case, prefixed with set_ or
// remove_ depending on kind. It panics on an empty name.
func MethodToSnake(name string, kind MethodKind) string {
	var b strings.Builder
	b.Grow(len(name) + 8)
	switch kind {
	case MethodSet:
		b.WriteString("set_")
	case MethodRemove:
		b.WriteString("remove_")
	}
	appendCase(&b, name, unicode.ToLower)
	return b.String()
}

func appendCase(b *strings.Builder, name string, toCase func(rune) rune) {
	if name == "" {
		panic("casing: empty identifier")
	}

	if fixed, ok := exceptions[name]; ok {
		for _, c := range fixed {
			b.WriteRune(toCase(c))
		}
		return
	}

	chars := []rune(name)
	b.WriteRune(toCase(chars[0]))
	sinceBoundary := 1

	for i := 1; i < len(chars)-1; i++ {
		previous, current, next := chars[i-1], chars[i], chars[i+1]

		if !unicode.IsUpper(current) {
			sinceBoundary++
			b.WriteRune(toCase(current))
			continue
		}

		if unicode.IsLower(previous) || unicode.IsLower(next) && sinceBoundary > 1 {
			sinceBoundary = 0
			if previous != '_' {
				b.WriteByte('_')
			}
		}

		sinceBoundary++
		b.WriteRune(toCase(current))
	}

	if len(chars) > 1 {
		b.WriteRune(toCase(chars[len(chars)-1]))
	}
}
