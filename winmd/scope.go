package winmd

import "github.com/wippyai/winmd/metadata"

// ScopeKind is the decoded meaning of a TypeRef's resolution scope.
type ScopeKind uint8

const (
	// ScopeModule: the type is defined in the same module.
	ScopeModule ScopeKind = iota
	// ScopeModuleRef: the type is defined in another module of the same assembly.
	ScopeModuleRef
	// ScopeAssemblyRef: the type is defined in a referenced assembly.
	ScopeAssemblyRef
	// ScopeTypeRef: the type is nested and Row is the enclosing TypeRef.
	ScopeTypeRef
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "Module"
	case ScopeModuleRef:
		return "ModuleRef"
	case ScopeAssemblyRef:
		return "AssemblyRef"
	case ScopeTypeRef:
		return "TypeRef"
	default:
		return "Unknown"
	}
}

// ResolutionScope is the decoded scope column of a TypeRef. Row addresses the
// Module, ModuleRef, AssemblyRef or TypeRef row named by Kind.
type ResolutionScope struct {
	Kind ScopeKind
	Row  Row
}

var scopeKinds = map[metadata.TableID]ScopeKind{
	metadata.TableModule:      ScopeModule,
	metadata.TableModuleRef:   ScopeModuleRef,
	metadata.TableAssemblyRef: ScopeAssemblyRef,
	metadata.TableTypeRef:     ScopeTypeRef,
}
