package schema

import "github.com/flatforge/flatforge/flat/verify"

// reflectionSchemaSpec describes, for the Verifier, the shape of exactly
// the reflection.Schema fields this package's loader actually walks.
// Every vtable slot physically present in a reflection buffer — including
// ones not named here (attributes, documentation, declaration_file, ...)
// — still gets the generic bounds check the Verifier always applies;
// these TableSpecs add the deeper string/vector/recursion checks only
// where load.go follows a reference.
//
// reflect_layout.go's constants are vtable byte offsets (4 + 2*index);
// verify.Field.Slot is the 0-based field index, hence idx.
func idx(slot verify.VOffsetT) verify.VOffsetT { return (slot - 4) / 2 }

var (
	reflectionTypeSpec = &verify.TableSpec{Name: "reflection.Type"}

	reflectionEnumValSpec = &verify.TableSpec{
		Name: "reflection.EnumVal",
		Fields: []verify.Field{
			{Slot: idx(enumValName), Kind: verify.KindString},
			{Slot: idx(enumValObject), Kind: verify.KindTable, Elem: reflectionObjectSpec},
		},
	}

	reflectionEnumSpec = &verify.TableSpec{
		Name: "reflection.Enum",
		Fields: []verify.Field{
			{Slot: idx(enumName), Kind: verify.KindString},
			{Slot: idx(enumValues), Kind: verify.KindReferenceVector, Elem: reflectionEnumValSpec},
			{Slot: idx(enumUnderlyingType), Kind: verify.KindTable, Elem: reflectionTypeSpec},
		},
	}

	reflectionFieldSpec = &verify.TableSpec{
		Name: "reflection.Field",
		Fields: []verify.Field{
			{Slot: idx(fieldName), Kind: verify.KindString},
			{Slot: idx(fieldType), Kind: verify.KindTable, Elem: reflectionTypeSpec},
		},
	}

	reflectionObjectSpec = &verify.TableSpec{
		Name: "reflection.Object",
		Fields: []verify.Field{
			{Slot: idx(objectName), Kind: verify.KindString},
			{Slot: idx(objectFields), Kind: verify.KindReferenceVector, Elem: reflectionFieldSpec},
		},
	}

	reflectionSchemaSpec = &verify.TableSpec{
		Name: "reflection.Schema",
		Fields: []verify.Field{
			{Slot: idx(schemaObjects), Kind: verify.KindReferenceVector, Elem: reflectionObjectSpec},
			{Slot: idx(schemaEnums), Kind: verify.KindReferenceVector, Elem: reflectionEnumSpec},
			{Slot: idx(schemaFileIdent), Kind: verify.KindString},
			{Slot: idx(schemaFileExt), Kind: verify.KindString},
			{Slot: idx(schemaRootTable), Kind: verify.KindTable, Elem: reflectionObjectSpec},
		},
	}
)
