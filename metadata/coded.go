package metadata

import "math/bits"

// CodedKind identifies a coded index family (ECMA-335 II.24.2.6).
type CodedKind uint8

const (
	CodedTypeDefOrRef CodedKind = iota
	CodedHasConstant
	CodedHasCustomAttribute
	CodedHasFieldMarshal
	CodedHasDeclSecurity
	CodedMemberRefParent
	CodedHasSemantics
	CodedMethodDefOrRef
	CodedMemberForwarded
	CodedImplementation
	CodedCustomAttributeType
	CodedResolutionScope
	CodedTypeOrMethodDef
	codedKindCount
)

var codedNames = [codedKindCount]string{
	"TypeDefOrRef", "HasConstant", "HasCustomAttribute", "HasFieldMarshal",
	"HasDeclSecurity", "MemberRefParent", "HasSemantics", "MethodDefOrRef",
	"MemberForwarded", "Implementation", "CustomAttributeType", "ResolutionScope",
	"TypeOrMethodDef",
}

// Tag order matters: the position of a table is its tag value.
var codedTables = [codedKindCount][]TableID{
	CodedTypeDefOrRef: {TableTypeDef, TableTypeRef, TableTypeSpec},
	CodedHasConstant:  {TableField, TableParam, TableProperty},
	CodedHasCustomAttribute: {
		TableMethodDef, TableField, TableTypeRef, TableTypeDef, TableParam,
		TableInterfaceImpl, TableMemberRef, TableModule, TableDeclSecurity, TableProperty,
		TableEvent, TableStandAloneSig, TableModuleRef, TableTypeSpec, TableAssembly,
		TableAssemblyRef, TableFile, TableExportedType, TableManifestResource,
		TableGenericParam, TableGenericParamConstraint, TableMethodSpec,
	},
	CodedHasFieldMarshal:     {TableField, TableParam},
	CodedHasDeclSecurity:     {TableTypeDef, TableMethodDef, TableAssembly},
	CodedMemberRefParent:     {TableTypeDef, TableTypeRef, TableModuleRef, TableMethodDef, TableTypeSpec},
	CodedHasSemantics:        {TableEvent, TableProperty},
	CodedMethodDefOrRef:      {TableMethodDef, TableMemberRef},
	CodedMemberForwarded:     {TableField, TableMethodDef},
	CodedImplementation:      {TableFile, TableAssemblyRef, TableExportedType},
	CodedCustomAttributeType: {tableUnused, tableUnused, TableMethodDef, TableMemberRef, tableUnused},
	CodedResolutionScope:     {TableModule, TableModuleRef, TableAssemblyRef, TableTypeRef},
	CodedTypeOrMethodDef:     {TableTypeDef, TableMethodDef},
}

func (k CodedKind) String() string {
	if k < codedKindCount {
		return codedNames[k]
	}
	return "Unknown"
}

// Tables returns the tables addressable by k, indexed by tag.
func (k CodedKind) Tables() []TableID {
	return codedTables[k]
}

// TagBits returns the number of low bits holding the table tag.
func (k CodedKind) TagBits() uint {
	return uint(bits.Len(uint(len(codedTables[k]) - 1)))
}

// Encode packs a table and a 1-based row into a coded index value.
// It reports false if t is not a member of k.
func (k CodedKind) Encode(t TableID, index uint32) (uint32, bool) {
	for tag, member := range codedTables[k] {
		if member == t && member != tableUnused {
			return index<<k.TagBits() | uint32(tag), true
		}
	}
	return 0, false
}

// CodedIndex is a decoded coded index value.
type CodedIndex struct {
	Kind  CodedKind
	Table TableID
	// Index is the 1-based row in Table; zero means null.
	Index uint32
}

// IsNull reports whether the coded index refers to no row.
func (c CodedIndex) IsNull() bool {
	return c.Index == 0
}

// Row returns the zero-based row. Only meaningful when !IsNull().
func (c CodedIndex) Row() uint32 {
	return c.Index - 1
}
