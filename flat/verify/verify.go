package verify

import "github.com/flatforge/flatforge/flat"

// maxOffsetLoc short-circuits any raw offset value that could not
// possibly address a byte within any buffer this process could hold,
// before it is ever added to a position. It mirrors the format's own
// "this can never be a valid UOffsetT target" constant.
const maxOffsetLoc = ^uint64(0) - uint64(flat.SizeUOffsetT)

// VerifyRoot checks that buf's root offset and the whole table graph
// reachable from it (as described by root) can be read without any
// out-of-bounds access, non-terminated string, or incoherent union.
func VerifyRoot(buf []byte, root *TableSpec) error {
	if len(buf) < flat.SizeUOffsetT {
		return outOfBounds(0, "buffer of length %d too small for a root offset", len(buf))
	}
	rootOff := flat.GetUOffsetT(buf[0:flat.SizeUOffsetT])
	pos, ok := checkedAdd(0, rootOff, len(buf))
	if !ok {
		return outOfBounds(0, "root offset %d out of bounds", rootOff)
	}
	return verifyTable(buf, pos, root)
}

// VerifySizePrefixedRoot checks the size-prefixed variant of the format:
// a 4-byte total length, followed by an ordinary root buffer of exactly
// that many bytes (buf may be longer; only the declared prefix is
// verified).
func VerifySizePrefixedRoot(buf []byte, root *TableSpec) error {
	if len(buf) < flat.SizeLen {
		return outOfBounds(0, "buffer of length %d too small for a size prefix", len(buf))
	}
	size := flat.GetUint32(buf[0:flat.SizeLen])
	end, ok := checkedAdd(flat.SizeLen, flat.UOffsetT(size), len(buf))
	if !ok {
		return outOfBounds(0, "declared size prefix %d exceeds buffer", size)
	}
	return VerifyRoot(buf[flat.SizeLen:end], root)
}

// checkedAdd computes pos+off entirely in uint64 so it can never wrap the
// host's int, then checks the result both against maxOffsetLoc and
// against bufLen. It is the one primitive every other bounds check in
// this file is built from.
func checkedAdd(pos int, off flat.UOffsetT, bufLen int) (int, bool) {
	sum := uint64(pos) + uint64(off)
	if sum > maxOffsetLoc || sum > uint64(bufLen) {
		return 0, false
	}
	return int(sum), true
}

func fits(pos, size, bufLen int) bool {
	if pos < 0 || size < 0 {
		return false
	}
	return uint64(pos)+uint64(size) <= uint64(bufLen)
}

// followUOffset reads the UOffsetT stored at slotPos and resolves it to
// an absolute position, checking both the read itself and the checked
// addition that follows it.
func followUOffset(buf []byte, slotPos int) (int, bool) {
	if !fits(slotPos, flat.SizeUOffsetT, len(buf)) {
		return 0, false
	}
	off := flat.GetUOffsetT(buf[slotPos:])
	return checkedAdd(slotPos, off, len(buf))
}

// tableCursor holds the pieces of one table's header that every
// subsequent check needs, computed once by verifyTable's entry steps.
type tableCursor struct {
	buf             []byte
	tablePos        int
	vtablePos       int
	tableInlineSize int
	tableEnd        int
	numSlots        int
}

// fieldOffset returns the table-relative byte offset recorded for slot,
// or (0, true) if the slot is absent or beyond the (trimmed) vtable's
// declared slots. ok is false only when the vtable's own entry for this
// slot fails the §4.7 step-4 "points inside the table body" check.
func (c *tableCursor) fieldOffset(slot flat.VOffsetT) (off int, ok bool) {
	i := int(slot)
	if i >= c.numSlots {
		return 0, true
	}
	pos := c.vtablePos + flat.VtableMetadataFields*flat.SizeVOffsetT + i*flat.SizeVOffsetT
	v := int(flat.GetVOffsetT(c.buf[pos:]))
	if v == 0 {
		return 0, true
	}
	if v < flat.SizeSOffsetT || v >= c.tableInlineSize {
		return 0, false
	}
	return v, true
}

// verifyTable implements §4.7's per-table algorithm. pos is the table's
// own start position (not the vtable's).
func verifyTable(buf []byte, pos int, spec *TableSpec) error {
	if !fits(pos, flat.SizeSOffsetT, len(buf)) {
		return outOfBounds(pos, "table header at %d out of bounds", pos)
	}
	soffset := flat.GetSOffsetT(buf[pos:])
	vtablePos64 := int64(pos) - int64(soffset)
	if vtablePos64 < 0 || vtablePos64 > int64(len(buf)) {
		return outOfBounds(pos, "vtable position for table at %d out of bounds", pos)
	}
	vtablePos := int(vtablePos64)

	if !fits(vtablePos, flat.VtableMetadataFields*flat.SizeVOffsetT, len(buf)) {
		return outOfBounds(vtablePos, "vtable header at %d out of bounds", vtablePos)
	}
	vtableLen := int(flat.GetVOffsetT(buf[vtablePos:]))
	tableInlineSize := int(flat.GetVOffsetT(buf[vtablePos+flat.SizeVOffsetT:]))

	if vtableLen < flat.VtableMetadataFields*flat.SizeVOffsetT {
		return outOfBounds(vtablePos, "vtable length %d smaller than its own header", vtableLen)
	}
	if tableInlineSize < flat.SizeSOffsetT {
		return outOfBounds(pos, "table inline size %d smaller than its own header", tableInlineSize)
	}
	if !fits(vtablePos, vtableLen, len(buf)) {
		return outOfBounds(vtablePos, "vtable end out of bounds")
	}
	if !fits(pos, tableInlineSize, len(buf)) {
		return outOfBounds(pos, "table end out of bounds")
	}

	cursor := &tableCursor{
		buf:             buf,
		tablePos:        pos,
		vtablePos:       vtablePos,
		tableInlineSize: tableInlineSize,
		tableEnd:        pos + tableInlineSize,
		numSlots:        (vtableLen - flat.VtableMetadataFields*flat.SizeVOffsetT) / flat.SizeVOffsetT,
	}

	// Step 4: every physically-present vtable slot must point inside
	// the table body, whether or not this schema's spec says anything
	// about that slot (deprecated fields still occupy a slot).
	for i := 0; i < cursor.numSlots; i++ {
		if _, ok := cursor.fieldOffset(flat.VOffsetT(i)); !ok {
			return outOfBounds(vtablePos, "vtable slot %d points outside the table body", i)
		}
	}

	// Step 5/6: recurse into whichever declared fields this schema
	// cares about beyond a raw bounds check.
	for _, f := range spec.Fields {
		if f.Kind == KindUnion {
			if err := verifyUnionField(cursor, f); err != nil {
				return err
			}
			continue
		}

		off, _ := cursor.fieldOffset(f.Slot) // already validated above
		if off == 0 {
			continue
		}
		fieldPos := pos + off

		var err error
		switch f.Kind {
		case KindScalar:
			if !fits(fieldPos, f.Size, cursor.tableEnd) {
				err = outOfBounds(fieldPos, "scalar field at slot %d out of bounds", f.Slot)
			}
		case KindString:
			err = verifyString(buf, fieldPos)
		case KindScalarVector:
			err = verifyScalarVector(buf, fieldPos, f.Size)
		case KindReferenceVector:
			err = verifyReferenceVector(buf, fieldPos, f)
		case KindTable:
			err = verifyTableField(buf, fieldPos, f.Elem)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func verifyTableField(buf []byte, fieldPos int, elem *TableSpec) error {
	childPos, ok := followUOffset(buf, fieldPos)
	if !ok {
		return outOfBounds(fieldPos, "table reference out of bounds")
	}
	return verifyTable(buf, childPos, elem)
}

func verifyString(buf []byte, fieldPos int) error {
	pos, ok := followUOffset(buf, fieldPos)
	if !ok {
		return outOfBounds(fieldPos, "string reference out of bounds")
	}
	if !fits(pos, flat.SizeLen, len(buf)) {
		return outOfBounds(pos, "string length prefix out of bounds")
	}
	length := flat.GetUint32(buf[pos:])
	dataStart := pos + flat.SizeLen
	end, ok := checkedAdd(dataStart, flat.UOffsetT(length), len(buf))
	if !ok || !fits(end, 1, len(buf)) {
		return outOfBounds(pos, "string of length %d out of bounds", length)
	}
	if buf[end] != 0 {
		return nonNullTerminated(pos)
	}
	return nil
}

func verifyScalarVector(buf []byte, fieldPos int, elemSize int) error {
	pos, ok := followUOffset(buf, fieldPos)
	if !ok {
		return outOfBounds(fieldPos, "vector reference out of bounds")
	}
	if !fits(pos, flat.SizeLen, len(buf)) {
		return outOfBounds(pos, "vector length prefix out of bounds")
	}
	length := flat.GetUint32(buf[pos:])
	totalBytes := uint64(length) * uint64(elemSize)
	dataStart := pos + flat.SizeLen
	if totalBytes > maxOffsetLoc || !fits(dataStart, int(totalBytes), len(buf)) {
		return outOfBounds(pos, "vector of %d elements at %d bytes each out of bounds", length, elemSize)
	}
	return nil
}

func verifyReferenceVector(buf []byte, fieldPos int, f Field) error {
	pos, ok := followUOffset(buf, fieldPos)
	if !ok {
		return outOfBounds(fieldPos, "vector reference out of bounds")
	}
	if !fits(pos, flat.SizeLen, len(buf)) {
		return outOfBounds(pos, "vector length prefix out of bounds")
	}
	length := int(flat.GetUint32(buf[pos:]))
	elemsStart := pos + flat.SizeLen
	totalBytes := uint64(length) * uint64(flat.SizeUOffsetT)
	if totalBytes > maxOffsetLoc || !fits(elemsStart, int(totalBytes), len(buf)) {
		return outOfBounds(pos, "reference vector of %d elements out of bounds", length)
	}
	for i := 0; i < length; i++ {
		slotPos := elemsStart + i*flat.SizeUOffsetT
		if f.ElemIsString {
			if err := verifyString(buf, slotPos); err != nil {
				return err
			}
			continue
		}
		if err := verifyTableField(buf, slotPos, f.Elem); err != nil {
			return err
		}
	}
	return nil
}

// verifyUnionField handles both halves of a union at once: the
// discriminant and the payload it gates. Absence of one without the
// other, an out-of-range tag, or a failing variant are all
// UnmatchedUnion.
func verifyUnionField(cursor *tableCursor, f Field) error {
	tagOff, _ := cursor.fieldOffset(f.Slot)
	payloadOff, _ := cursor.fieldOffset(f.UnionPayloadSlot)

	if tagOff == 0 && payloadOff == 0 {
		return nil
	}
	if tagOff == 0 || payloadOff == 0 {
		return unmatchedUnion(cursor.tablePos, "union at slot %d has a discriminant without a payload, or vice versa", f.Slot)
	}

	tagPos := cursor.tablePos + tagOff
	if !fits(tagPos, flat.SizeByte, cursor.tableEnd) {
		return outOfBounds(tagPos, "union discriminant out of bounds")
	}
	tag := int(flat.GetByte(cursor.buf[tagPos:]))
	if tag <= 0 || tag >= len(f.Variants) || f.Variants[tag] == nil {
		return unmatchedUnion(tagPos, "union discriminant %d has no matching variant", tag)
	}

	payloadPos := cursor.tablePos + payloadOff
	childPos, ok := followUOffset(cursor.buf, payloadPos)
	if !ok {
		return outOfBounds(payloadPos, "union payload reference out of bounds")
	}
	if err := verifyTable(cursor.buf, childPos, f.Variants[tag]); err != nil {
		return unmatchedUnion(payloadPos, "union variant %d failed verification: %v", tag, err)
	}
	return nil
}
