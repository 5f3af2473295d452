package winmd_test

import (
	"testing"

	"github.com/wippyai/winmd/metadata"
	"github.com/wippyai/winmd/metadata/metadatatest"
	"github.com/wippyai/winmd/winmd"
)

// TypeRef rows of foundation(), 1-based as written.
const (
	refObject = iota + 1
	refUri
	refOuter
	refInner
	refDeep
	refMissing
	refTwin
	refCycleA
	refCycleB
	refSelf
	refNowhere
	refNullScope
	refUriViaModuleRef
	refInnerOfNowhere
)

func scope(t metadata.TableID, index uint32) uint32 {
	return metadatatest.Coded(metadata.CodedResolutionScope, t, index)
}

// foundation builds an image with top-level, nested and doubly nested types
// and a reference row for every resolution outcome.
func foundation() *metadatatest.Builder {
	b := metadatatest.New()
	b.AddRow(metadata.TableModule, 0, b.String("Windows.Foundation.winmd"), 0, 0, 0)
	asm := b.AddRow(metadata.TableAssemblyRef, 1, 0, 0, 0, 0, 0, b.String("mscorlib"), 0, 0)
	modRef := b.AddRow(metadata.TableModuleRef, b.String("Other.dll"))
	generic := b.AddRow(metadata.TableTypeSpec, b.Blob([]byte{0x15, 0x12, 0x08}))

	ns := b.String("Windows.Foundation")
	a := b.String("A")

	b.AddRow(metadata.TableTypeRef, scope(metadata.TableAssemblyRef, asm), b.String("Object"), b.String("System"))
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableModule, 1), b.String("Uri"), ns)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableModule, 1), b.String("Outer"), a)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refOuter), b.String("Inner"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refInner), b.String("Deep"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refOuter), b.String("Missing"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refOuter), b.String("Twin"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refCycleB), b.String("CycleA"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refCycleA), b.String("CycleB"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refSelf), b.String("Self"), 0)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableModule, 1), b.String("Nowhere"), a)
	b.AddRow(metadata.TableTypeRef, 0, b.String("Null"), a)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableModuleRef, modRef), b.String("Uri"), ns)
	b.AddRow(metadata.TableTypeRef, scope(metadata.TableTypeRef, refNowhere), b.String("Inner"), 0)

	iface := metadata.TypePublic | metadata.TypeInterface | metadata.TypeWindowsRuntime
	class := metadata.TypePublic | metadata.TypeWindowsRuntime
	stringable := b.AddRow(metadata.TableTypeDef, iface, b.String("IStringable"), ns, 0, 1, 1)
	b.AddRow(metadata.TableTypeDef, class, b.String("Uri"), ns,
		metadatatest.Coded(metadata.CodedTypeDefOrRef, metadata.TableTypeRef, refObject), 1, 1)
	outer := b.AddRow(metadata.TableTypeDef, class, b.String("Outer"), a,
		metadatatest.Coded(metadata.CodedTypeDefOrRef, metadata.TableTypeDef, stringable), 1, 7)
	inner := b.AddRow(metadata.TableTypeDef, metadata.TypeNestedPublic, b.String("Inner"), 0, 0, 2, 7)
	deep := b.AddRow(metadata.TableTypeDef, metadata.TypeNestedPublic, b.String("Deep"), 0,
		metadatatest.Coded(metadata.CodedTypeDefOrRef, metadata.TableTypeSpec, generic), 2, 7)
	twin1 := b.AddRow(metadata.TableTypeDef, metadata.TypeNestedPublic, b.String("Twin"), 0, 0, 2, 7)
	twin2 := b.AddRow(metadata.TableTypeDef, metadata.TypeNestedPublic, b.String("Twin"), 0, 0, 2, 7)

	// Uri owns methods 1-6, Outer owns field 1.
	special := uint32(metadata.MethodSpecialName)
	for _, m := range []struct {
		name  string
		flags uint32
	}{
		{"get_Host", special},
		{"put_Host", special},
		{"add_Changed", special},
		{"remove_Changed", special},
		{"ToString", 0},
		{"put_", special},
	} {
		b.AddRow(metadata.TableMethodDef, 0, 0, m.flags, b.String(m.name), b.Blob([]byte{0x20, 0x00, 0x01}), 1)
	}
	b.AddRow(metadata.TableField, uint32(metadata.FieldStatic|metadata.FieldLiteral), b.String("Value"), b.Blob([]byte{0x06, 0x08}))

	b.AddRow(metadata.TableNestedClass, inner, outer)
	b.AddRow(metadata.TableNestedClass, deep, inner)
	b.AddRow(metadata.TableNestedClass, twin1, outer)
	b.AddRow(metadata.TableNestedClass, twin2, outer)
	return b
}

// corlib defines System.Object and a second Windows.Foundation.Uri.
func corlib() *metadatatest.Builder {
	b := metadatatest.New()
	b.AddRow(metadata.TableModule, 0, b.String("mscorlib.dll"), 0, 0, 0)
	b.AddRow(metadata.TableTypeDef, metadata.TypePublic, b.String("Object"), b.String("System"), 0, 1, 1)
	b.AddRow(metadata.TableTypeDef, metadata.TypePublic, b.String("Uri"), b.String("Windows.Foundation"), 0, 1, 1)
	return b
}

func parse(t *testing.T, b *metadatatest.Builder) *metadata.File {
	t.Helper()
	f, err := metadata.Parse(b.Root())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return f
}

func newReader(t *testing.T) *winmd.TypeReader {
	t.Helper()
	r, err := winmd.New(parse(t, foundation()), parse(t, corlib()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func typeRef(r *winmd.TypeReader, file uint16, index uint32) winmd.TypeRef {
	return r.TypeRef(winmd.Row{File: file, Table: metadata.TableTypeRef, Index: index - 1})
}

func typeDefRow(file uint16, index uint32) winmd.Row {
	return winmd.Row{File: file, Table: metadata.TableTypeDef, Index: index - 1}
}
