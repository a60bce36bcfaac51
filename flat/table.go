package flat

// Table is a read-only view over an already-verified buffer: Pos is the
// absolute position of some table's own start, and Bytes is the buffer it
// lives in. It is deliberately the only reader this package exposes —
// schema.Load builds a small, purpose-specific reader on top of it
// rather than this package offering a general buffer navigator.
//
// Every method here assumes buf has already passed verify.VerifyRoot (or
// the caller otherwise trusts it); none of them re-check bounds.
type Table struct {
	Bytes []byte
	Pos   UOffsetT
}

// Offset resolves a declared vtable slot to the field's byte offset from
// t.Pos, or 0 if the slot is absent or beyond the vtable's declared
// length (a deprecated or schema-evolution-absent field).
func (t *Table) Offset(slot VOffsetT) VOffsetT {
	vtable := UOffsetT(SOffsetT(t.Pos) - t.GetSOffsetT(t.Pos))
	if slot < t.GetVOffsetT(vtable) {
		return t.GetVOffsetT(vtable + UOffsetT(slot))
	}
	return 0
}

// Indirect follows the UOffsetT stored at off and returns the absolute
// position it resolves to.
func (t *Table) Indirect(off UOffsetT) UOffsetT {
	return off + GetUOffsetT(t.Bytes[off:])
}

// String reads a length-prefixed, NUL-terminated string stored at off.
func (t *Table) String(off UOffsetT) string {
	return byteSliceToString(t.ByteVector(off))
}

// ByteVector reads a length-prefixed byte vector stored at off.
func (t *Table) ByteVector(off UOffsetT) []byte {
	off += GetUOffsetT(t.Bytes[off:])
	length := GetUOffsetT(t.Bytes[off:])
	start := off + UOffsetT(SizeUOffsetT)
	return t.Bytes[start : start+length]
}

// VectorLen reads the element count of the vector whose slot offset
// (relative to t.Pos) is off.
func (t *Table) VectorLen(off UOffsetT) int {
	off += t.Pos
	off += GetUOffsetT(t.Bytes[off:])
	return int(GetUOffsetT(t.Bytes[off:]))
}

// Vector returns the absolute position of the first element of the
// vector whose slot offset (relative to t.Pos) is off.
func (t *Table) Vector(off UOffsetT) UOffsetT {
	off += t.Pos
	x := off + GetUOffsetT(t.Bytes[off:])
	x += UOffsetT(SizeUOffsetT)
	return x
}

// Indexed returns a Table positioned at the reference stored at the
// given absolute slot position — used to step into one element of a
// reference vector (e.g. objects[i]).
func (t *Table) Indexed(slotPos UOffsetT) Table {
	return Table{Bytes: t.Bytes, Pos: t.Indirect(slotPos)}
}

func (t *Table) GetBool(off UOffsetT) bool       { return GetBool(t.Bytes[off:]) }
func (t *Table) GetByte(off UOffsetT) byte       { return GetByte(t.Bytes[off:]) }
func (t *Table) GetUint8(off UOffsetT) uint8     { return GetUint8(t.Bytes[off:]) }
func (t *Table) GetUint16(off UOffsetT) uint16   { return GetUint16(t.Bytes[off:]) }
func (t *Table) GetUint32(off UOffsetT) uint32   { return GetUint32(t.Bytes[off:]) }
func (t *Table) GetUint64(off UOffsetT) uint64   { return GetUint64(t.Bytes[off:]) }
func (t *Table) GetInt8(off UOffsetT) int8       { return GetInt8(t.Bytes[off:]) }
func (t *Table) GetInt16(off UOffsetT) int16     { return GetInt16(t.Bytes[off:]) }
func (t *Table) GetInt32(off UOffsetT) int32     { return GetInt32(t.Bytes[off:]) }
func (t *Table) GetInt64(off UOffsetT) int64     { return GetInt64(t.Bytes[off:]) }
func (t *Table) GetFloat64(off UOffsetT) float64 { return GetFloat64(t.Bytes[off:]) }

func (t *Table) GetSOffsetT(off UOffsetT) SOffsetT { return GetSOffsetT(t.Bytes[off:]) }
func (t *Table) GetVOffsetT(off UOffsetT) VOffsetT { return GetVOffsetT(t.Bytes[off:]) }

// GetBoolSlot, GetInt32Slot, etc. resolve a declared field slot to its
// offset via Offset and read the value there, or return d if the field
// is absent.
func (t *Table) GetBoolSlot(slot VOffsetT, d bool) bool {
	if off := t.Offset(slot); off != 0 {
		return t.GetBool(t.Pos + UOffsetT(off))
	}
	return d
}

func (t *Table) GetUint8Slot(slot VOffsetT, d uint8) uint8 {
	if off := t.Offset(slot); off != 0 {
		return t.GetUint8(t.Pos + UOffsetT(off))
	}
	return d
}

func (t *Table) GetInt8Slot(slot VOffsetT, d int8) int8 {
	if off := t.Offset(slot); off != 0 {
		return t.GetInt8(t.Pos + UOffsetT(off))
	}
	return d
}

func (t *Table) GetUint16Slot(slot VOffsetT, d uint16) uint16 {
	if off := t.Offset(slot); off != 0 {
		return t.GetUint16(t.Pos + UOffsetT(off))
	}
	return d
}

func (t *Table) GetInt32Slot(slot VOffsetT, d int32) int32 {
	if off := t.Offset(slot); off != 0 {
		return t.GetInt32(t.Pos + UOffsetT(off))
	}
	return d
}

func (t *Table) GetInt64Slot(slot VOffsetT, d int64) int64 {
	if off := t.Offset(slot); off != 0 {
		return t.GetInt64(t.Pos + UOffsetT(off))
	}
	return d
}

func (t *Table) GetFloat64Slot(slot VOffsetT, d float64) float64 {
	if off := t.Offset(slot); off != 0 {
		return t.GetFloat64(t.Pos + UOffsetT(off))
	}
	return d
}

// StringSlot reads a string field, or "" if the slot is absent.
func (t *Table) StringSlot(slot VOffsetT) string {
	if off := t.Offset(slot); off != 0 {
		return t.String(t.Pos + UOffsetT(off))
	}
	return ""
}

// TableSlot reads a nested-table reference field, or (Table{}, false) if
// the slot is absent.
func (t *Table) TableSlot(slot VOffsetT) (Table, bool) {
	off := t.Offset(slot)
	if off == 0 {
		return Table{}, false
	}
	return Table{Bytes: t.Bytes, Pos: t.Indirect(t.Pos + UOffsetT(off))}, true
}

// VectorSlot returns the absolute start position and element count of a
// vector field, or (0, 0, false) if the slot is absent.
func (t *Table) VectorSlot(slot VOffsetT) (start UOffsetT, length int, ok bool) {
	off := t.Offset(slot)
	if off == 0 {
		return 0, 0, false
	}
	return t.Vector(UOffsetT(off)), t.VectorLen(UOffsetT(off)), true
}
