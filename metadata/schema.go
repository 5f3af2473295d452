package metadata

// ColumnKind describes how a table column is encoded.
type ColumnKind uint8

const (
	ColU16 ColumnKind = iota
	ColU32
	ColString
	ColGUID
	ColBlob
	ColTable
	ColCoded
)

// Column is one column of a table schema.
type Column struct {
	Name  string
	Kind  ColumnKind
	Table TableID   // target table for ColTable
	Coded CodedKind // family for ColCoded
}

func u16(name string) Column           { return Column{Name: name, Kind: ColU16} }
func u32(name string) Column           { return Column{Name: name, Kind: ColU32} }
func str(name string) Column           { return Column{Name: name, Kind: ColString} }
func guid(name string) Column          { return Column{Name: name, Kind: ColGUID} }
func blob(name string) Column          { return Column{Name: name, Kind: ColBlob} }
func idx(name string, t TableID) Column { return Column{Name: name, Kind: ColTable, Table: t} }
func coded(name string, k CodedKind) Column {
	return Column{Name: name, Kind: ColCoded, Coded: k}
}

// Constant.Type is a one-byte value followed by one byte of padding, read as U16.
var schemas = [TableCount][]Column{
	TableModule:    {u16("Generation"), str("Name"), guid("Mvid"), guid("EncId"), guid("EncBaseId")},
	TableTypeRef:   {coded("ResolutionScope", CodedResolutionScope), str("TypeName"), str("TypeNamespace")},
	TableTypeDef:   {u32("Flags"), str("TypeName"), str("TypeNamespace"), coded("Extends", CodedTypeDefOrRef), idx("FieldList", TableField), idx("MethodList", TableMethodDef)},
	TableFieldPtr:  {idx("Field", TableField)},
	TableField:     {u16("Flags"), str("Name"), blob("Signature")},
	TableMethodPtr: {idx("Method", TableMethodDef)},
	TableMethodDef: {u32("RVA"), u16("ImplFlags"), u16("Flags"), str("Name"), blob("Signature"), idx("ParamList", TableParam)},
	TableParamPtr:  {idx("Param", TableParam)},
	TableParam:     {u16("Flags"), u16("Sequence"), str("Name")},

	TableInterfaceImpl:   {idx("Class", TableTypeDef), coded("Interface", CodedTypeDefOrRef)},
	TableMemberRef:       {coded("Class", CodedMemberRefParent), str("Name"), blob("Signature")},
	TableConstant:        {u16("Type"), coded("Parent", CodedHasConstant), blob("Value")},
	TableCustomAttribute: {coded("Parent", CodedHasCustomAttribute), coded("Type", CodedCustomAttributeType), blob("Value")},
	TableFieldMarshal:    {coded("Parent", CodedHasFieldMarshal), blob("NativeType")},
	TableDeclSecurity:    {u16("Action"), coded("Parent", CodedHasDeclSecurity), blob("PermissionSet")},
	TableClassLayout:     {u16("PackingSize"), u32("ClassSize"), idx("Parent", TableTypeDef)},
	TableFieldLayout:     {u32("Offset"), idx("Field", TableField)},
	TableStandAloneSig:   {blob("Signature")},
	TableEventMap:        {idx("Parent", TableTypeDef), idx("EventList", TableEvent)},
	TableEventPtr:        {idx("Event", TableEvent)},
	TableEvent:           {u16("EventFlags"), str("Name"), coded("EventType", CodedTypeDefOrRef)},
	TablePropertyMap:     {idx("Parent", TableTypeDef), idx("PropertyList", TableProperty)},
	TablePropertyPtr:     {idx("Property", TableProperty)},
	TableProperty:        {u16("Flags"), str("Name"), blob("Type")},
	TableMethodSemantics: {u16("Semantics"), idx("Method", TableMethodDef), coded("Association", CodedHasSemantics)},
	TableMethodImpl:      {idx("Class", TableTypeDef), coded("MethodBody", CodedMethodDefOrRef), coded("MethodDeclaration", CodedMethodDefOrRef)},
	TableModuleRef:       {str("Name")},
	TableTypeSpec:        {blob("Signature")},
	TableImplMap:         {u16("MappingFlags"), coded("MemberForwarded", CodedMemberForwarded), str("ImportName"), idx("ImportScope", TableModuleRef)},
	TableFieldRVA:        {u32("RVA"), idx("Field", TableField)},
	TableEncLog:          {u32("Token"), u32("FuncCode")},
	TableEncMap:          {u32("Token")},
	TableAssembly:        {u32("HashAlgId"), u16("MajorVersion"), u16("MinorVersion"), u16("BuildNumber"), u16("RevisionNumber"), u32("Flags"), blob("PublicKey"), str("Name"), str("Culture")},
	TableAssemblyProcessor: {u32("Processor")},
	TableAssemblyOS:        {u32("OSPlatformID"), u32("OSMajorVersion"), u32("OSMinorVersion")},
	TableAssemblyRef:       {u16("MajorVersion"), u16("MinorVersion"), u16("BuildNumber"), u16("RevisionNumber"), u32("Flags"), blob("PublicKeyOrToken"), str("Name"), str("Culture"), blob("HashValue")},
	TableAssemblyRefProcessor: {u32("Processor"), idx("AssemblyRef", TableAssemblyRef)},
	TableAssemblyRefOS:        {u32("OSPlatformId"), u32("OSMajorVersion"), u32("OSMinorVersion"), idx("AssemblyRef", TableAssemblyRef)},
	TableFile:                 {u32("Flags"), str("Name"), blob("HashValue")},
	TableExportedType:         {u32("Flags"), u32("TypeDefId"), str("TypeName"), str("TypeNamespace"), coded("Implementation", CodedImplementation)},
	TableManifestResource:     {u32("Offset"), u32("Flags"), str("Name"), coded("Implementation", CodedImplementation)},
	TableNestedClass:          {idx("NestedClass", TableTypeDef), idx("EnclosingClass", TableTypeDef)},
	TableGenericParam:         {u16("Number"), u16("Flags"), coded("Owner", CodedTypeOrMethodDef), str("Name")},
	TableMethodSpec:           {coded("Method", CodedMethodDefOrRef), blob("Instantiation")},
	TableGenericParamConstraint: {idx("Owner", TableGenericParam), coded("Constraint", CodedTypeDefOrRef)},
}

// Schema returns the column layout of t.
func Schema(t TableID) []Column {
	if !t.Valid() {
		return nil
	}
	return schemas[t]
}

// Sizes holds the inputs that decide column widths: row counts and heap flags.
type Sizes struct {
	Rows      [TableCount]uint32
	HeapSizes byte
}

// ColumnWidth returns the encoded width in bytes of c.
func (s *Sizes) ColumnWidth(c Column) int {
	switch c.Kind {
	case ColU16:
		return 2
	case ColU32:
		return 4
	case ColString:
		return s.heapWidth(HeapStringsWide)
	case ColGUID:
		return s.heapWidth(HeapGUIDWide)
	case ColBlob:
		return s.heapWidth(HeapBlobWide)
	case ColTable:
		if s.Rows[c.Table] < 1<<16 {
			return 2
		}
		return 4
	case ColCoded:
		limit := uint32(1) << (16 - c.Coded.TagBits())
		for _, t := range c.Coded.Tables() {
			if t != tableUnused && s.Rows[t] >= limit {
				return 4
			}
		}
		return 2
	}
	return 0
}

func (s *Sizes) heapWidth(flag byte) int {
	if s.HeapSizes&flag != 0 {
		return 4
	}
	return 2
}

// RowSize returns the encoded size of one row of t.
func (s *Sizes) RowSize(t TableID) int {
	size := 0
	for _, c := range Schema(t) {
		size += s.ColumnWidth(c)
	}
	return size
}
