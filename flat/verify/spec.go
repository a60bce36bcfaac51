package verify

import "github.com/flatforge/flatforge/flat"

// FieldKind tells the generic table walker what shape a declared field
// has, and therefore which leaf or recursive check applies to it.
type FieldKind int

const (
	// KindScalar is any fixed-width inline payload: a scalar or a
	// struct. Only a bounds check is needed — there is nothing further
	// to follow.
	KindScalar FieldKind = iota
	KindString
	KindScalarVector
	KindReferenceVector
	KindTable
	// KindUnion covers both halves of a union field at once: the
	// 1-byte discriminant (at this Field's Slot) and its paired
	// UOffsetT payload (at UnionPayloadSlot). A TableSpec must never
	// list the payload slot again as a separate Field.
	KindUnion
)

// Field is one declared vtable slot's verification recipe, as a generated
// schema would emit it: no verification *logic* here, just enough data
// for the generic engine in verify.go to drive the §4.7 algorithm.
type Field struct {
	Slot VOffsetT

	Kind FieldKind

	// Size is the scalar field's byte width (KindScalar) or the
	// element byte width of a scalar vector (KindScalarVector).
	Size int

	// Elem is the recursion target for KindTable, or for
	// KindReferenceVector when ElemIsString is false.
	Elem *TableSpec

	// ElemIsString marks a KindReferenceVector whose elements are
	// strings rather than sub-tables.
	ElemIsString bool

	// UnionPayloadSlot and Variants apply only to KindUnion. Variants
	// is 1-based: Variants[0] is unused (discriminant 0 means "none"),
	// Variants[tag] is the TableSpec for that tag's payload table.
	UnionPayloadSlot VOffsetT
	Variants         []*TableSpec
}

// VOffsetT is re-exported so generated code needs only this package and
// flat's Builder, not flat's raw primitive types, when it builds specs.
type VOffsetT = flat.VOffsetT

// TableSpec is a schema object's verification shape: one Field per
// declared vtable slot that is either a reference or otherwise needs
// more than a raw bounds check. Scalar/struct fields that a particular
// schema never needs to distinguish can simply be omitted — any vtable
// slot with no matching Field is still bounds-checked generically against
// the table body by verifyTable's step 4, it just isn't followed further.
type TableSpec struct {
	Name   string
	Fields []Field
}
