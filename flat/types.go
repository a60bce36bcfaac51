package flat

// UOffsetT is an unsigned forward reference: the distance, in bytes, from
// the slot holding the offset to the object it points at.
type UOffsetT uint32

// SOffsetT is a signed back-reference, used only by a table's header to
// reach its vtable.
type SOffsetT int32

// VOffsetT is an unsigned field slot: either an index into a vtable's
// entries, or (as stored in the vtable itself) a field's byte offset from
// the start of its table.
type VOffsetT uint16

// Len is a vector or string's element/byte count, stored as an unsigned
// 32-bit integer immediately before the payload.
type Len uint32

// Byte widths of the fixed-size primitive types above. These are the
// alignments the Builder aligns to when it emits each type's slot.
const (
	SizeUOffsetT = 4
	SizeSOffsetT = 4
	SizeVOffsetT = 2
	SizeLen      = 4

	SizeBool    = 1
	SizeByte    = 1
	SizeInt8    = 1
	SizeUint8   = 1
	SizeInt16   = 2
	SizeUint16  = 2
	SizeInt32   = 4
	SizeUint32  = 4
	SizeInt64   = 8
	SizeUint64  = 8
	SizeFloat32 = 4
	SizeFloat64 = 8
)

// VtableMetadataFields is the number of VOffsetT-sized header fields every
// vtable carries ahead of its per-field slots: the vtable's own byte
// length, and the inline byte size of the table it describes.
const VtableMetadataFields = 2

// fileIdentifierLength is the byte width of an optional buffer identifier
// that BuildWithIdentifier writes immediately after the root offset.
const fileIdentifierLength = 4
