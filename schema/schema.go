// Package schema holds the normalized, in-memory model of a FlatBuffers
// schema, and a loader that reads it from the format's own self-describing
// binary representation (the reflection.Schema root table).
package schema

// Schema is the normalized form of one compiled schema file: every
// object and enum it declares, plus whichever one (if any) is its root
// table.
type Schema struct {
	Objects   []*Object
	Enums     []*Enum
	FileIdent string
	FileExt   string
	RootTable *Object
}

// Object is a table or struct declaration.
type Object struct {
	Name     string
	Fields   []*Field
	IsStruct bool
	MinAlign int
	ByteSize int
}

// Field is one declared member of an Object, already carrying the
// derived layout facts (Size, Alignment, IsReference) a code generator
// needs without recomputing them from Type each time.
type Field struct {
	Name           string
	Type           Type
	ID             int
	Offset         int // vtable slot byte offset (tables) or struct offset (structs)
	DefaultInteger int64
	DefaultReal    float64
	Deprecated     bool
	Required       bool
	Optional       bool

	// Size is this field's inline byte width: a scalar's width, or
	// SizeUOffsetT for anything stored as a reference.
	Size int
	// Alignment is the byte alignment this field's inline slot requires.
	Alignment int
	// IsReference marks a field whose table-relative slot holds a
	// UOffsetT pointing elsewhere (string, vector, table, union payload)
	// rather than an inline scalar/struct value.
	IsReference bool
}

// Enum is an enum or union declaration. A union is an Enum with IsUnion
// set, whose Values name the payload Object each discriminant selects.
type Enum struct {
	Name           string
	Values         []*EnumVal
	IsUnion        bool
	UnderlyingType Type
}

// EnumVal is one named constant of an Enum, or one tagged variant of a
// union (Object set, naming the payload table for that tag).
type EnumVal struct {
	Name   string
	Value  int64
	Object *Object // non-nil only for a union's variants
}

// TypeKind mirrors reflection.BaseType's scalar/aggregate classification,
// collapsed to what a Go code generator actually branches on.
type TypeKind int

const (
	KindBool TypeKind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindVector
	KindObj
	KindUnion
)

// Type is the normalized form of a reflection.Type: a scalar kind, a
// string, a vector of some element kind, a nested object/struct
// reference, or a union reference.
type Type struct {
	Kind TypeKind

	// Element is set when Kind == KindVector: the element type, which is
	// itself fully resolved (never another KindVector — the format does
	// not nest vectors).
	Element *Type

	// Object is set when Kind is KindObj or (for the element type of a
	// vector-of-tables) nested inside Element.
	Object *Object

	// Enum is set when Kind is KindUnion, or when a scalar Kind is
	// really an enum's underlying integer type — naming which Enum.
	Enum *Enum
}
