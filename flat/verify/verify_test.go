package verify

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatforge/flatforge/flat"
)

// twoFieldU32Spec mirrors flat's own singleU32Field boundary scenario: a
// table with a declared u32 at slot 0 and nothing else.
func twoFieldU32Spec() *TableSpec {
	return &TableSpec{
		Name: "Scalar",
		Fields: []Field{
			{Slot: 0, Kind: KindScalar, Size: flat.SizeUint32},
		},
	}
}

func buildScalarTable(value uint32) []byte {
	var scalar [4]byte
	flat.WriteUint32(scalar[:], value)
	b := flat.NewBuilder(0)
	return b.Build(&flat.TableComponent{
		NumFields: 1,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: 4, Scalar: scalar[:]},
		},
	})
}

func TestVerifyRootAcceptsWellFormedScalarTable(t *testing.T) {
	buf := buildScalarTable(42)
	assert.NoError(t, VerifyRoot(buf, twoFieldU32Spec()))
}

func TestVerifyRootAcceptsEmptyRoot(t *testing.T) {
	// A root table with no fields at all: flat.Empty would emit no table
	// header for the Verifier to read.
	b := flat.NewBuilder(0)
	buf := b.Build(&flat.TableComponent{NumFields: 0, Alignment: 4})
	assert.NoError(t, VerifyRoot(buf, &TableSpec{Name: "Empty"}))
}

func TestVerifyRootRejectsTruncatedBuffer(t *testing.T) {
	buf := buildScalarTable(42)
	for cut := 1; cut < len(buf); cut++ {
		truncated := buf[:len(buf)-cut]
		err := VerifyRoot(truncated, twoFieldU32Spec())
		require.Error(t, err, "truncating to %d bytes should have failed", len(truncated))
		var verr *Error
		require.ErrorAs(t, err, &verr)
	}
}

func stringFieldSpec() *TableSpec {
	return &TableSpec{
		Name: "HasString",
		Fields: []Field{
			{Slot: 0, Kind: KindString},
		},
	}
}

func buildStringFieldTable(value string) []byte {
	b := flat.NewBuilder(0)
	return b.Build(&flat.TableComponent{
		NumFields: 1,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.StringComponent{Value: value}},
		},
	})
}

func TestVerifyStringFieldRejectsNonNullTerminated(t *testing.T) {
	buf := buildStringFieldTable("hello")
	corrupted := append([]byte(nil), buf...)
	corrupted[len(corrupted)-1] = 'X'

	err := VerifyRoot(corrupted, stringFieldSpec())
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NonNullTerminatedString, verr.Kind)
}

func TestVerifyStringFieldRejectsTruncatedLength(t *testing.T) {
	buf := buildStringFieldTable("hello")
	require.NoError(t, VerifyRoot(buf, stringFieldSpec()))

	// Truncate the buffer to land inside the string's payload, after its
	// length prefix claims 5 bytes are present.
	truncated := buf[:len(buf)-3]
	err := VerifyRoot(truncated, stringFieldSpec())
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, OutOfBounds, verr.Kind)
}

func TestVerifySoundnessOverBuilderOutput(t *testing.T) {
	// Property 6: every buffer the Builder can produce for a schema
	// verifies successfully under that schema's TableSpec.
	nested := &TableSpec{
		Name: "Child",
		Fields: []Field{
			{Slot: 0, Kind: KindScalar, Size: flat.SizeUint32},
		},
	}
	parent := &TableSpec{
		Name: "Parent",
		Fields: []Field{
			{Slot: 0, Kind: KindString},
			{Slot: 1, Kind: KindTable, Elem: nested},
			{Slot: 2, Kind: KindScalarVector, Size: flat.SizeInt64},
			{Slot: 3, Kind: KindReferenceVector, ElemIsString: true},
		},
	}

	var childScalar [4]byte
	flat.WriteUint32(childScalar[:], 7)
	childComponent := &flat.TableComponent{
		NumFields: 1,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: 4, Scalar: childScalar[:]},
		},
	}

	elems := make([]byte, 3*8)
	for i := 0; i < 3; i++ {
		flat.WriteInt64(elems[i*8:], int64(i))
	}

	root := &flat.TableComponent{
		NumFields: 4,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.StringComponent{Value: "parent"}},
			{Slot: 1, Alignment: 4, Size: flat.SizeUOffsetT, Ref: childComponent},
			{Slot: 2, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.ScalarVectorComponent{ElemSize: 8, Elements: elems, Count: 3}},
			{Slot: 3, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.ReferenceVectorComponent{Elements: []flat.Component{
				flat.StringComponent{Value: "a"},
				flat.StringComponent{Value: "bb"},
			}}},
		},
	}

	b := flat.NewBuilder(0)
	buf := b.Build(root)
	assert.NoError(t, VerifyRoot(buf, parent))
}

func TestVerifySafetyOverRandomBytesNeverPanics(t *testing.T) {
	// Property 7: fed arbitrary bytes, the Verifier must return an error
	// (or, rarely, succeed by chance) but never panic, regardless of
	// input shape.
	spec := &TableSpec{
		Name: "Arbitrary",
		Fields: []Field{
			{Slot: 0, Kind: KindScalar, Size: flat.SizeUint32},
			{Slot: 1, Kind: KindString},
			{Slot: 2, Kind: KindTable, Elem: &TableSpec{Name: "Nested"}},
			{Slot: 3, Kind: KindScalarVector, Size: 8},
			{Slot: 4, Kind: KindReferenceVector, ElemIsString: true},
			{
				Slot: 5, Kind: KindUnion, UnionPayloadSlot: 6,
				Variants: []*TableSpec{nil, {Name: "Variant1"}},
			},
		},
	}

	rng := rand.New(rand.NewSource(1))
	for n := 4; n <= 4096; n += 37 {
		buf := make([]byte, n)
		rng.Read(buf)
		assert.NotPanics(t, func() {
			_ = VerifyRoot(buf, spec)
		}, "buffer length %d panicked", n)
	}
}

func TestVerifySizePrefixedRootRejectsOversizedPrefix(t *testing.T) {
	b := flat.NewBuilder(0)
	buf := b.BuildSizePrefixed(flat.Empty)
	flat.WriteUint32(buf[0:4], uint32(len(buf))*10)
	err := VerifySizePrefixedRoot(buf, &TableSpec{Name: "Empty"})
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, OutOfBounds, verr.Kind)
}

func TestVerifyUnionRejectsMismatchedPresence(t *testing.T) {
	variant := &TableSpec{
		Name: "Variant1",
		Fields: []Field{
			{Slot: 0, Kind: KindScalar, Size: flat.SizeUint32},
		},
	}
	spec := &TableSpec{
		Name: "UnionHolder",
		Fields: []Field{
			{
				Slot: 0, Kind: KindUnion, UnionPayloadSlot: 1,
				Variants: []*TableSpec{nil, variant},
			},
		},
	}

	var tag [1]byte
	tag[0] = 1

	// Discriminant present, payload absent: must be UnmatchedUnion.
	b := flat.NewBuilder(0)
	buf := b.Build(&flat.TableComponent{
		NumFields: 2,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 1, Size: 1, Scalar: tag[:]},
		},
	})
	err := VerifyRoot(buf, spec)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, UnmatchedUnion, verr.Kind)
}

func TestVerifyUnionAcceptsAbsentPair(t *testing.T) {
	variant := &TableSpec{Name: "Variant1"}
	spec := &TableSpec{
		Name: "UnionHolder",
		Fields: []Field{
			{
				Slot: 0, Kind: KindUnion, UnionPayloadSlot: 1,
				Variants: []*TableSpec{nil, variant},
			},
		},
	}
	// A table declaring both union slots with neither present.
	b := flat.NewBuilder(0)
	buf := b.Build(&flat.TableComponent{NumFields: 2, Alignment: 4})
	assert.NoError(t, VerifyRoot(buf, spec))
}
