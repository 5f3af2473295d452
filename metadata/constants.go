package metadata

// Image signatures.
const (
	// DOSSignature is the "MZ" signature at the start of a PE file.
	DOSSignature uint16 = 0x5A4D

	// PESignature is the "PE\0\0" signature at e_lfanew.
	PESignature uint32 = 0x00004550

	// MetadataSignature is the "BSJB" signature at the start of the metadata root.
	MetadataSignature uint32 = 0x424A5342
)

// PE optional header magic values.
const (
	pe32Magic     uint16 = 0x10B
	pe32PlusMagic uint16 = 0x20B
)

// CLIHeaderDirectory is the index of the CLI header in the PE data directory.
const CLIHeaderDirectory = 14

// Stream names recognised in the metadata root.
const (
	StreamTables             = "#~"
	StreamTablesUncompressed = "#-"
	StreamStrings            = "#Strings"
	StreamBlob               = "#Blob"
	StreamGUID               = "#GUID"
	StreamUserStrings        = "#US"
)

// HeapSizes flags in the #~ header select 4-byte heap indexes.
const (
	HeapStringsWide byte = 0x01
	HeapGUIDWide    byte = 0x02
	HeapBlobWide    byte = 0x04
	heapExtraData   byte = 0x40
)

// TableID identifies a metadata table (ECMA-335 II.22).
type TableID uint8

// Metadata tables in the order they appear in the #~ stream.
const (
	TableModule                 TableID = 0x00
	TableTypeRef                TableID = 0x01
	TableTypeDef                TableID = 0x02
	TableFieldPtr               TableID = 0x03
	TableField                  TableID = 0x04
	TableMethodPtr              TableID = 0x05
	TableMethodDef              TableID = 0x06
	TableParamPtr               TableID = 0x07
	TableParam                  TableID = 0x08
	TableInterfaceImpl          TableID = 0x09
	TableMemberRef              TableID = 0x0A
	TableConstant               TableID = 0x0B
	TableCustomAttribute        TableID = 0x0C
	TableFieldMarshal           TableID = 0x0D
	TableDeclSecurity           TableID = 0x0E
	TableClassLayout            TableID = 0x0F
	TableFieldLayout            TableID = 0x10
	TableStandAloneSig          TableID = 0x11
	TableEventMap               TableID = 0x12
	TableEventPtr               TableID = 0x13
	TableEvent                  TableID = 0x14
	TablePropertyMap            TableID = 0x15
	TablePropertyPtr            TableID = 0x16
	TableProperty               TableID = 0x17
	TableMethodSemantics        TableID = 0x18
	TableMethodImpl             TableID = 0x19
	TableModuleRef              TableID = 0x1A
	TableTypeSpec               TableID = 0x1B
	TableImplMap                TableID = 0x1C
	TableFieldRVA               TableID = 0x1D
	TableEncLog                 TableID = 0x1E
	TableEncMap                 TableID = 0x1F
	TableAssembly               TableID = 0x20
	TableAssemblyProcessor      TableID = 0x21
	TableAssemblyOS             TableID = 0x22
	TableAssemblyRef            TableID = 0x23
	TableAssemblyRefProcessor   TableID = 0x24
	TableAssemblyRefOS          TableID = 0x25
	TableFile                   TableID = 0x26
	TableExportedType           TableID = 0x27
	TableManifestResource       TableID = 0x28
	TableNestedClass            TableID = 0x29
	TableGenericParam           TableID = 0x2A
	TableMethodSpec             TableID = 0x2B
	TableGenericParamConstraint TableID = 0x2C

	// TableCount is the number of tables defined by ECMA-335.
	TableCount = 0x2D

	// tableUnused marks reserved slots in a coded index tag space.
	tableUnused TableID = 0xFF
)

var tableNames = [TableCount]string{
	"Module", "TypeRef", "TypeDef", "FieldPtr", "Field", "MethodPtr", "MethodDef",
	"ParamPtr", "Param", "InterfaceImpl", "MemberRef", "Constant", "CustomAttribute",
	"FieldMarshal", "DeclSecurity", "ClassLayout", "FieldLayout", "StandAloneSig",
	"EventMap", "EventPtr", "Event", "PropertyMap", "PropertyPtr", "Property",
	"MethodSemantics", "MethodImpl", "ModuleRef", "TypeSpec", "ImplMap", "FieldRVA",
	"EncLog", "EncMap", "Assembly", "AssemblyProcessor", "AssemblyOS", "AssemblyRef",
	"AssemblyRefProcessor", "AssemblyRefOS", "File", "ExportedType", "ManifestResource",
	"NestedClass", "GenericParam", "MethodSpec", "GenericParamConstraint",
}

func (t TableID) String() string {
	if int(t) < len(tableNames) {
		return tableNames[t]
	}
	return "Unknown"
}

// Valid reports whether t names a table defined by ECMA-335.
func (t TableID) Valid() bool {
	return t < TableCount
}

// Well-known column positions used outside this package.
const (
	TypeRefScope     = 0
	TypeRefName      = 1
	TypeRefNamespace = 2

	TypeDefFlags      = 0
	TypeDefName       = 1
	TypeDefNamespace  = 2
	TypeDefExtends    = 3
	TypeDefFieldList  = 4
	TypeDefMethodList = 5

	FieldFlags = 0
	FieldName  = 1

	MethodDefFlags = 2
	MethodDefName  = 3

	NestedClassNested    = 0
	NestedClassEnclosing = 1

	ModuleName      = 1
	ModuleRefName   = 0
	AssemblyRefName = 6
)

// TypeAttributes flags (ECMA-335 II.23.1.15).
const (
	TypeVisibilityMask uint32 = 0x07
	TypeNotPublic      uint32 = 0x00
	TypePublic         uint32 = 0x01
	TypeNestedPublic   uint32 = 0x02
	TypeInterface      uint32 = 0x20
	TypeWindowsRuntime uint32 = 0x4000
)

// MethodAttributes and FieldAttributes flags (ECMA-335 II.23.1.10, II.23.1.5).
const (
	MethodSpecialName   uint16 = 0x0800
	MethodRTSpecialName uint16 = 0x1000
	FieldStatic         uint16 = 0x0010
	FieldLiteral        uint16 = 0x0040
)
