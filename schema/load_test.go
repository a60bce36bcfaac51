package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatforge/flatforge/flat"
)

// buildReflectionType emits a minimal reflection.Type table: just
// base_type at slot 4 (element/index/etc left absent, which load.go
// treats as "not a vector", "no enum index").
func buildReflectionType(bt baseType) *flat.TableComponent {
	var scalar [1]byte
	flat.WriteInt8(scalar[:], int8(bt))
	return &flat.TableComponent{
		NumFields: 1,
		Alignment: 1,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: flat.SizeInt8, Size: flat.SizeInt8, Scalar: scalar[:]},
		},
	}
}

// buildReflectionField emits a reflection.Field table: name (string) and
// type (nested reflection.Type table).
func buildReflectionField(name string, bt baseType) *flat.TableComponent {
	return &flat.TableComponent{
		NumFields: 2,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.StringComponent{Value: name}},
			{Slot: 1, Alignment: 4, Size: flat.SizeUOffsetT, Ref: buildReflectionType(bt)},
		},
	}
}

// buildReflectionObject emits a reflection.Object table: name (string)
// and fields (vector of reflection.Field tables).
func buildReflectionObject(name string, fields []*flat.TableComponent) *flat.TableComponent {
	fieldComponents := make([]flat.Component, len(fields))
	for i, f := range fields {
		fieldComponents[i] = f
	}
	return &flat.TableComponent{
		NumFields: 2,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.StringComponent{Value: name}},
			{Slot: 1, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.ReferenceVectorComponent{Elements: fieldComponents}},
		},
	}
}

func TestLoadRoundTripsOneObjectOneField(t *testing.T) {
	monster := buildReflectionObject("Monster", []*flat.TableComponent{
		buildReflectionField("hp", btShort),
	})

	root := &flat.TableComponent{
		// Field indices: 0 objects, 1 enums, 2 file_ident, 3 file_ext,
		// 4 root_table — matching reflection.Schema's declaration order.
		NumFields: 5,
		Alignment: 4,
		Fields: []flat.TableField{
			{Slot: 0, Alignment: 4, Size: flat.SizeUOffsetT, Ref: flat.ReferenceVectorComponent{Elements: []flat.Component{monster}}},
			{Slot: 4, Alignment: 4, Size: flat.SizeUOffsetT, Ref: monster},
		},
	}

	b := flat.NewBuilder(0)
	buf := b.Build(root)

	s, err := Load(buf)
	require.NoError(t, err)
	require.Len(t, s.Objects, 1)
	assert.Equal(t, "Monster", s.Objects[0].Name)
	require.Len(t, s.Objects[0].Fields, 1)

	hp := s.Objects[0].Fields[0]
	assert.Equal(t, "hp", hp.Name)
	assert.Equal(t, KindInt16, hp.Type.Kind)
	assert.Equal(t, flat.SizeInt16, hp.Size)
	assert.False(t, hp.IsReference)

	require.NotNil(t, s.RootTable)
	assert.Same(t, s.Objects[0], s.RootTable)
}

func TestLoadRejectsMalformedBuffer(t *testing.T) {
	_, err := Load([]byte{0x01, 0x02})
	require.Error(t, err)
}
