package flat

import "sort"

// Builder is a state machine that assembles a FlatBuffers-compatible
// buffer from a tree of Components, breadth-first.
//
// Unlike the reference implementation (which builds from the tail of the
// buffer backwards), Builder grows its buffer forward: it keeps a FIFO
// queue of "emit this Component; when you know where it started, patch
// this slot" work items, seeded with the root Component at slot 0. Each
// iteration dequeues the oldest item, lets the Component append its own
// bytes (and possibly enqueue further children), and backpatches the
// child's start position into the parent's reserved slot. Because the
// queue is strictly FIFO, a parent's bytes always precede its children's,
// and siblings appear in the order they were enqueued — this ordering is
// part of the wire contract, not an implementation detail.
type Builder struct {
	buf []byte

	vtables   *vtableIndex
	scratchVT []VOffsetT

	queue []pendingRef

	// maxAlign is the largest alignment any Align/AlignAfter call has
	// been asked for so far. BuildWithIdentifier needs this to know how
	// much it must shift the buffer by without disturbing any field's
	// alignment relative to the buffer start.
	maxAlign int

	built bool
}

// pendingRef is one entry on the deferred-component queue: a reserved
// UOffsetT slot (already zero-filled in buf) and the Component that will
// eventually occupy it.
type pendingRef struct {
	slot      UOffsetT
	component Component
}

// Component is anything Builder can place in a buffer: a string, a
// vector, a generated table, a union dispatch, or a nested buffer.
//
// Build appends the component's bytes to b's buffer — aligning as
// necessary first — enqueues any outgoing references under reserved
// slots, and returns the absolute position its bytes start at. That
// position is what a referencing UOffsetT resolves to.
type Component interface {
	Build(b *Builder) UOffsetT
}

// ComponentFunc adapts a plain function to the Component interface, for
// the common case of a leaf component with no state worth naming.
type ComponentFunc func(b *Builder) UOffsetT

func (f ComponentFunc) Build(b *Builder) UOffsetT { return f(b) }

// Empty is the trivial Component that emits no bytes at all; its start
// position is wherever the buffer tail already happens to be.
var Empty Component = ComponentFunc(func(b *Builder) UOffsetT { return UOffsetT(len(b.buf)) })

// NewBuilder creates a Builder. capacityHint pre-sizes the internal
// buffer to reduce reallocation; zero or negative means "no hint".
func NewBuilder(capacityHint int) *Builder {
	if capacityHint <= 0 {
		capacityHint = 1024
	}
	b := &Builder{
		vtables:  newVTableIndex(),
		maxAlign: 1,
	}
	b.buf = make([]byte, SizeUOffsetT, capacityHint)
	return b
}

// Tell returns the current length of the buffer under construction.
func (b *Builder) Tell() int { return len(b.buf) }

// AppendByte appends a single raw byte.
func (b *Builder) AppendByte(v byte) { b.buf = append(b.buf, v) }

// AppendBytes appends a raw byte slice verbatim.
func (b *Builder) AppendBytes(p []byte) { b.buf = append(b.buf, p...) }

// Overwrite replaces the bytes at [pos, pos+len(p)) with p. Used to
// backpatch a previously-reserved offset slot once its target is known.
func (b *Builder) Overwrite(pos int, p []byte) {
	copy(b.buf[pos:pos+len(p)], p)
}

// Pad appends n zero bytes.
func (b *Builder) Pad(n int) {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, 0)
	}
}

// Align pads the buffer up to the next position that is a multiple of a
// and returns the new length.
func (b *Builder) Align(a int) int {
	b.noteAlign(a)
	target := align(len(b.buf), a)
	b.Pad(target - len(b.buf))
	return len(b.buf)
}

// AlignAfter pads the buffer so that, once n more bytes are written, the
// resulting position is aligned to max(n, a). Returns the new length
// (the position at which the caller should write its n-byte header).
func (b *Builder) AlignAfter(n, a int) int {
	b.noteAlign(a)
	if n > b.maxAlign {
		b.maxAlign = n
	}
	target := alignAfter(len(b.buf), n, a)
	b.Pad(target - len(b.buf))
	return len(b.buf)
}

func (b *Builder) noteAlign(a int) {
	if a > b.maxAlign {
		b.maxAlign = a
	}
}

// enqueue records that, once component's start position is known, it
// should be backpatched into slot (a reserved, currently-zero UOffsetT
// somewhere already written to buf).
func (b *Builder) enqueue(slot UOffsetT, component Component) {
	b.queue = append(b.queue, pendingRef{slot: slot, component: component})
}

// PushReference reserves a 4-byte UOffsetT slot at the current (caller
// pre-aligned) tail and enqueues component to fill it once built. It
// returns the absolute position of the reserved slot.
func (b *Builder) PushReference(component Component) UOffsetT {
	slot := UOffsetT(len(b.buf))
	b.AppendBytes(make([]byte, SizeUOffsetT))
	b.enqueue(slot, component)
	return slot
}

// BeginVTable starts a scratch vtable with numFields declared slots, all
// initially absent (zero).
func (b *Builder) BeginVTable(numFields int) {
	b.scratchVT = make([]VOffsetT, numFields)
}

// AddFieldOffset records that the field at the given declared slot is
// present at byte offset (from the table's own start) within the table.
func (b *Builder) AddFieldOffset(slot VOffsetT, offsetInTable VOffsetT) {
	b.scratchVT[slot] = offsetInTable
}

// FinishVTable emits the scratch vtable built by BeginVTable/AddFieldOffset
// (trimming trailing absent slots), deduplicates it against every vtable
// already written in this build, and returns the final vtable's start
// position — either a freshly written one or a shared, pre-existing one.
func (b *Builder) FinishVTable(tableInlineSize VOffsetT) UOffsetT {
	return b.writeVTable(b.scratchVT, tableInlineSize)
}

func (b *Builder) writeVTable(vals []VOffsetT, tableInlineSize VOffsetT) UOffsetT {
	n := len(vals)
	for n > 0 && vals[n-1] == 0 {
		n--
	}
	vals = vals[:n]

	b.Align(SizeVOffsetT)
	scratchStart := len(b.buf)

	vtableLen := VOffsetT((VtableMetadataFields + n) * SizeVOffsetT)
	b.appendVOffsetT(vtableLen)
	b.appendVOffsetT(tableInlineSize)
	for _, v := range vals {
		b.appendVOffsetT(v)
	}

	scratchBytes := b.buf[scratchStart:]
	h := hashVTableBytes(scratchBytes)

	if pos, ok := b.vtables.find(b.buf, h, scratchBytes); ok {
		b.buf = b.buf[:scratchStart]
		return pos
	}

	pos := UOffsetT(scratchStart)
	b.vtables.insert(h, pos)
	return pos
}

func (b *Builder) appendVOffsetT(v VOffsetT) {
	var tmp [SizeVOffsetT]byte
	WriteVOffsetT(tmp[:], v)
	b.AppendBytes(tmp[:])
}

func (b *Builder) appendSOffsetT(v SOffsetT) {
	var tmp [SizeSOffsetT]byte
	WriteSOffsetT(tmp[:], v)
	b.AppendBytes(tmp[:])
}

// TableField describes one present field of a generated table, as laid
// out by buildTable: exactly one of Scalar or Ref is set.
type TableField struct {
	Slot      VOffsetT // declared vtable slot, 0-based
	Alignment int
	Size      int    // byte width this field occupies inline (SizeUOffsetT for references)
	Scalar    []byte // pre-encoded little-endian bytes, for scalar/struct fields
	Ref       Component
}

// TableComponent is the generated Component for a non-struct schema
// object: it knows its declared field count and alignment (fixed by the
// schema), and this instance's present fields in declaration order.
type TableComponent struct {
	NumFields int
	Alignment int
	Fields    []TableField
}

func (t *TableComponent) Build(b *Builder) UOffsetT {
	return b.buildTable(t)
}

func (b *Builder) buildTable(t *TableComponent) UOffsetT {
	sorted := make([]TableField, len(t.Fields))
	copy(sorted, t.Fields)
	// Descending (alignment, size); stable sort preserves the declaration
	// order callers are expected to supply Fields in, which is exactly
	// the tiebreak the emission-order rule calls for.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Alignment != sorted[j].Alignment {
			return sorted[i].Alignment > sorted[j].Alignment
		}
		return sorted[i].Size > sorted[j].Size
	})

	alignment := t.Alignment
	if alignment < SizeSOffsetT {
		alignment = SizeSOffsetT
	}

	pos := SizeSOffsetT
	vtableVals := make([]VOffsetT, t.NumFields)
	for _, f := range sorted {
		// The table start sits SizeSOffsetT bytes before an alignment
		// boundary, so offsets are aligned relative to the header's end.
		pos = SizeSOffsetT + align(pos-SizeSOffsetT, f.Alignment)
		vtableVals[f.Slot] = VOffsetT(pos)
		pos += f.Size
	}
	tableInlineSize := pos

	vtableStart := b.writeVTable(vtableVals, VOffsetT(tableInlineSize))

	b.AlignAfter(SizeSOffsetT, alignment)
	tableStart := UOffsetT(len(b.buf))
	b.appendSOffsetT(SOffsetT(int64(tableStart) - int64(vtableStart)))

	for _, f := range sorted {
		b.Align(f.Alignment)
		if f.Ref != nil {
			slot := UOffsetT(len(b.buf))
			b.AppendBytes(make([]byte, SizeUOffsetT))
			b.enqueue(slot, f.Ref)
		} else {
			b.AppendBytes(f.Scalar)
		}
	}
	return tableStart
}

// Build drains the deferred-component queue, starting from root, and
// returns the finished buffer. Build may only be called once per
// Builder.
func (b *Builder) Build(root Component) []byte {
	if b.built {
		panic("flat: Builder.Build called more than once")
	}
	b.built = true

	b.queue = append(b.queue, pendingRef{slot: 0, component: root})
	for i := 0; i < len(b.queue); i++ {
		entry := b.queue[i]
		childStart := entry.component.Build(b)
		uoffset := childStart - entry.slot
		var tmp [SizeUOffsetT]byte
		WriteUOffsetT(tmp[:], uoffset)
		b.Overwrite(int(entry.slot), tmp[:])
	}
	return b.buf
}

// BuildSizePrefixed is Build, but prefixes the finished buffer with its
// own total length as a Len, matching the format's size-prefixed root
// variant (consumed by verify.VerifySizePrefixedRoot).
func (b *Builder) BuildSizePrefixed(root Component) []byte {
	finished := b.Build(root)
	out := make([]byte, SizeLen+len(finished))
	WriteUint32(out, uint32(len(finished)))
	copy(out[SizeLen:], finished)
	return out
}

// BuildWithIdentifier is Build, but stamps a 4-byte file identifier
// immediately after the root offset, as self-describing schema buffers
// (and any other buffer that wants a magic number) do.
//
// The root offset is the only absolute pointer in the buffer (every other
// UOffsetT is relative to its own slot, which shifts by the same amount
// as its target). Splicing the identifier in after slot 0 moves every
// byte from position SizeUOffsetT onward forward by however much room
// the splice takes — that shift must be a multiple of the largest
// alignment any field in the buffer actually used, or it would disturb
// that field's alignment relative to the buffer start. So the splice is
// padded out to align(fileIdentifierLength, maxAlign) rather than always
// being exactly fileIdentifierLength bytes.
func (b *Builder) BuildWithIdentifier(root Component, identifier [fileIdentifierLength]byte) []byte {
	finished := b.Build(root)

	shift := align(fileIdentifierLength, b.maxAlign)
	out := make([]byte, len(finished)+shift)

	rootOffset := GetUOffsetT(finished[:SizeUOffsetT]) + UOffsetT(shift)
	WriteUOffsetT(out[:SizeUOffsetT], rootOffset)
	copy(out[SizeUOffsetT:], identifier[:])
	copy(out[SizeUOffsetT+shift:], finished[SizeUOffsetT:])
	return out
}
