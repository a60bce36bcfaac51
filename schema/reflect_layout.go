package schema

import "github.com/flatforge/flatforge/flat"

// Vtable slot numbers for the upstream reflection.fbs root tables, fixed
// by their field declaration order (slot = 4 + 2*field_index). These are
// reproduced as constants rather than recomputed, since the reflection
// schema itself never changes shape at runtime.

const (
	schemaObjects           flat.VOffsetT = 4
	schemaEnums             flat.VOffsetT = 6
	schemaFileIdent         flat.VOffsetT = 8
	schemaFileExt           flat.VOffsetT = 10
	schemaRootTable         flat.VOffsetT = 12
	schemaServices          flat.VOffsetT = 14
	schemaAdvancedFeatures  flat.VOffsetT = 16
	schemaFbsFiles          flat.VOffsetT = 18
)

const (
	objectName            flat.VOffsetT = 4
	objectFields           flat.VOffsetT = 6
	objectIsStruct         flat.VOffsetT = 8
	objectMinalign         flat.VOffsetT = 10
	objectBytesize         flat.VOffsetT = 12
	objectAttributes       flat.VOffsetT = 14
	objectDocumentation    flat.VOffsetT = 16
	objectDeclarationFile  flat.VOffsetT = 18
)

const (
	fieldName            flat.VOffsetT = 4
	fieldType            flat.VOffsetT = 6
	fieldID              flat.VOffsetT = 8
	fieldOffset          flat.VOffsetT = 10
	fieldDefaultInteger  flat.VOffsetT = 12
	fieldDefaultReal     flat.VOffsetT = 14
	fieldDeprecated      flat.VOffsetT = 16
	fieldRequired        flat.VOffsetT = 18
	fieldKey             flat.VOffsetT = 20
	fieldAttributes      flat.VOffsetT = 22
	fieldDocumentation   flat.VOffsetT = 24
	fieldOptional        flat.VOffsetT = 26
	fieldPadding         flat.VOffsetT = 28
)

const (
	enumName            flat.VOffsetT = 4
	enumValues          flat.VOffsetT = 6
	enumIsUnion         flat.VOffsetT = 8
	enumUnderlyingType  flat.VOffsetT = 10
	enumAttributes      flat.VOffsetT = 12
	enumDocumentation   flat.VOffsetT = 14
	enumDeclarationFile flat.VOffsetT = 16
)

const (
	enumValName       flat.VOffsetT = 4
	enumValValue      flat.VOffsetT = 6
	enumValObject     flat.VOffsetT = 8
	enumValUnionType  flat.VOffsetT = 10
	enumValDocs       flat.VOffsetT = 12
	enumValAttributes flat.VOffsetT = 14
)

const (
	typeBaseType     flat.VOffsetT = 4
	typeElement      flat.VOffsetT = 6
	typeIndex        flat.VOffsetT = 8
	typeFixedLength  flat.VOffsetT = 10
	typeBaseSize     flat.VOffsetT = 12
	typeElementSize  flat.VOffsetT = 14
)

const (
	keyValueKey   flat.VOffsetT = 4
	keyValueValue flat.VOffsetT = 6
)

// baseType mirrors reflection.BaseType: the scalar/aggregate kind tag
// carried by every reflection.Type.
type baseType int8

const (
	btNone baseType = iota
	btUType
	btBool
	btByte
	btUByte
	btShort
	btUShort
	btInt
	btUInt
	btLong
	btULong
	btFloat
	btDouble
	btString
	btVector
	btObj
	btUnion
	btArray
	btVector64
)
