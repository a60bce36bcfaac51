package flat

// This file holds the concrete Component variants every generated schema
// is built from: strings, scalar vectors, reference vectors, nested
// buffers, and the thin union-dispatch wrapper. TableComponent itself
// lives in builder.go next to the table-emission protocol it drives.

// StringComponent emits a length-prefixed, null-terminated UTF-8 string.
type StringComponent struct {
	Value string
}

func (s StringComponent) Build(b *Builder) UOffsetT {
	b.Align(SizeLen)
	start := UOffsetT(len(b.buf))
	var lenBuf [SizeLen]byte
	WriteUint32(lenBuf[:], uint32(len(s.Value)))
	b.AppendBytes(lenBuf[:])
	b.AppendBytes([]byte(s.Value))
	b.AppendByte(0)
	return start
}

// ByteVectorComponent is StringComponent's non-UTF8 twin: a length-
// prefixed, NUL-terminated byte vector (the format stores strings and
// opaque byte vectors identically on the wire).
type ByteVectorComponent struct {
	Value []byte
}

func (s ByteVectorComponent) Build(b *Builder) UOffsetT {
	b.Align(SizeLen)
	start := UOffsetT(len(b.buf))
	var lenBuf [SizeLen]byte
	WriteUint32(lenBuf[:], uint32(len(s.Value)))
	b.AppendBytes(lenBuf[:])
	b.AppendBytes(s.Value)
	b.AppendByte(0)
	return start
}

// ScalarVectorComponent emits a length-prefixed vector of fixed-width
// scalar or struct elements, pre-encoded by the caller (generated code
// knows each element's exact little-endian representation).
type ScalarVectorComponent struct {
	ElemSize int
	Elements []byte // len(Elements) must equal Count*ElemSize
	Count    int
}

func (v ScalarVectorComponent) Build(b *Builder) UOffsetT {
	elemAlign := v.ElemSize
	if elemAlign < SizeLen {
		elemAlign = SizeLen
	}
	b.AlignAfter(SizeLen, elemAlign)
	start := UOffsetT(len(b.buf))
	var lenBuf [SizeLen]byte
	WriteUint32(lenBuf[:], uint32(v.Count))
	b.AppendBytes(lenBuf[:])
	b.AppendBytes(v.Elements)
	return start
}

// ReferenceVectorComponent emits a length-prefixed vector of UOffsetT
// slots, one per element, each enqueued against its own Component in
// iteration order.
type ReferenceVectorComponent struct {
	Elements []Component
}

func (v ReferenceVectorComponent) Build(b *Builder) UOffsetT {
	b.Align(SizeUOffsetT)
	start := UOffsetT(len(b.buf))
	var lenBuf [SizeLen]byte
	WriteUint32(lenBuf[:], uint32(len(v.Elements)))
	b.AppendBytes(lenBuf[:])

	slots := make([]UOffsetT, len(v.Elements))
	for i := range v.Elements {
		slots[i] = UOffsetT(len(b.buf))
		b.AppendBytes(make([]byte, SizeUOffsetT))
	}
	for i, elem := range v.Elements {
		b.enqueue(slots[i], elem)
	}
	return start
}

// NestedBufferComponent runs a fully independent inner Build and stores
// its result as a vector of u8 — a complete buffer embedded inside the
// outer one.
type NestedBufferComponent struct {
	Root          Component
	RootAlignment int
	CapacityHint  int
}

func (n NestedBufferComponent) Build(b *Builder) UOffsetT {
	inner := NewBuilder(n.CapacityHint)
	innerBytes := inner.Build(n.Root)

	alignment := n.RootAlignment
	if alignment < SizeLen {
		alignment = SizeLen
	}
	b.AlignAfter(SizeLen, alignment)
	start := UOffsetT(len(b.buf))
	var lenBuf [SizeLen]byte
	WriteUint32(lenBuf[:], uint32(len(innerBytes)))
	b.AppendBytes(lenBuf[:])
	b.AppendBytes(innerBytes)
	return start
}

// UnionComponent wraps an already-selected variant table so a union
// field's payload can be handed to the table protocol as a single
// Component, regardless of which concrete variant the schema chose.
type UnionComponent struct {
	Variant Component
}

func (u UnionComponent) Build(b *Builder) UOffsetT {
	return u.Variant.Build(b)
}
