package schema

import (
	"golang.org/x/xerrors"

	"github.com/flatforge/flatforge/flat"
	"github.com/flatforge/flatforge/flat/verify"
)

// Load reads buf as a reflection.Schema buffer and returns its
// normalized form. buf is verified against the reflection schema's own
// shape before anything in it is read.
func Load(buf []byte) (*Schema, error) {
	if err := verify.VerifyRoot(buf, reflectionSchemaSpec); err != nil {
		return nil, xerrors.Errorf("schema: malformed reflection buffer: %w", err)
	}
	root := rootTable(buf)

	l := &loader{objectsByIndex: make(map[int]*Object), enumsByIndex: make(map[int]*Enum)}
	return l.loadSchema(root)
}

func rootTable(buf []byte) flat.Table {
	off := flat.GetUOffsetT(buf[0:flat.SizeUOffsetT])
	return flat.Table{Bytes: buf, Pos: off}
}

// loader carries the index→pointer maps needed to resolve a Field or
// EnumVal's Type/object index into an already-constructed Object/Enum,
// since the reflection format's objects/enums vectors may reference each
// other (and themselves, for recursive types) before every entry has
// been fully built.
type loader struct {
	objectsByIndex map[int]*Object
	enumsByIndex   map[int]*Enum
}

func (l *loader) loadSchema(root flat.Table) (*Schema, error) {
	s := &Schema{
		FileIdent: root.StringSlot(schemaFileIdent),
		FileExt:   root.StringSlot(schemaFileExt),
	}

	objStart, objLen, hasObjects := root.VectorSlot(schemaObjects)
	if hasObjects {
		s.Objects = make([]*Object, objLen)
		for i := 0; i < objLen; i++ {
			s.Objects[i] = &Object{}
			l.objectsByIndex[i] = s.Objects[i]
		}
	}
	enumStart, enumLen, hasEnums := root.VectorSlot(schemaEnums)
	if hasEnums {
		s.Enums = make([]*Enum, enumLen)
		for i := 0; i < enumLen; i++ {
			s.Enums[i] = &Enum{}
			l.enumsByIndex[i] = s.Enums[i]
		}
	}

	if hasObjects {
		for i := 0; i < objLen; i++ {
			objTable := root.Indexed(objStart + flat.UOffsetT(i*flat.SizeUOffsetT))
			if err := l.fillObject(s.Objects[i], objTable); err != nil {
				return nil, xerrors.Errorf("schema: object %d: %w", i, err)
			}
		}
	}

	if hasEnums {
		for i := 0; i < enumLen; i++ {
			enumTable := root.Indexed(enumStart + flat.UOffsetT(i*flat.SizeUOffsetT))
			if err := l.fillEnum(s.Enums[i], enumTable); err != nil {
				return nil, xerrors.Errorf("schema: enum %d: %w", i, err)
			}
		}
	}

	if rt, ok := root.TableSlot(schemaRootTable); ok {
		obj, err := l.resolveObjectByTable(rt)
		if err != nil {
			return nil, xerrors.Errorf("schema: root_table: %w", err)
		}
		s.RootTable = obj
	}

	return s, nil
}

// resolveObjectByTable finds which already-built Object this nested
// reflection.Object table corresponds to, by name. The reflection format
// stores root_table as a full nested Object rather than an index, but
// every object it can name was already listed in objects.
func (l *loader) resolveObjectByTable(t flat.Table) (*Object, error) {
	name := t.StringSlot(objectName)
	for _, obj := range l.objectsByIndex {
		if obj.Name == name {
			return obj, nil
		}
	}
	return nil, xerrors.Errorf("object %q not present in objects", name)
}

func (l *loader) fillObject(obj *Object, t flat.Table) error {
	obj.Name = t.StringSlot(objectName)
	obj.IsStruct = t.GetBoolSlot(objectIsStruct, false)
	obj.MinAlign = int(t.GetInt32Slot(objectMinalign, 1))
	obj.ByteSize = int(t.GetInt32Slot(objectBytesize, 0))

	start, length, ok := t.VectorSlot(objectFields)
	if !ok {
		return nil
	}
	obj.Fields = make([]*Field, length)
	for i := 0; i < length; i++ {
		fieldTable := t.Indexed(start + flat.UOffsetT(i*flat.SizeUOffsetT))
		f, err := l.loadField(fieldTable)
		if err != nil {
			return xerrors.Errorf("field %d: %w", i, err)
		}
		obj.Fields[i] = f
	}
	return nil
}

func (l *loader) loadField(t flat.Table) (*Field, error) {
	f := &Field{
		Name:           t.StringSlot(fieldName),
		ID:             int(t.GetUint16Slot(fieldID, 0)),
		Offset:         int(t.GetUint16Slot(fieldOffset, 0)),
		DefaultInteger: t.GetInt64Slot(fieldDefaultInteger, 0),
		DefaultReal:    t.GetFloat64Slot(fieldDefaultReal, 0),
		Deprecated:     t.GetBoolSlot(fieldDeprecated, false),
		Required:       t.GetBoolSlot(fieldRequired, false),
		Optional:       t.GetBoolSlot(fieldOptional, false),
	}

	typeTable, ok := t.TableSlot(fieldType)
	if !ok {
		return nil, xerrors.New("field has no type")
	}
	typ, err := l.loadType(typeTable)
	if err != nil {
		return nil, xerrors.Errorf("type: %w", err)
	}
	f.Type = typ
	f.Size, f.Alignment, f.IsReference = fieldLayout(typ)
	return f, nil
}

// fieldLayout derives a field's inline byte width, alignment, and
// whether its slot holds a reference rather than an inline value, from
// its normalized Type. Scalars and structs are inline; everything else
// is a UOffsetT reference.
func fieldLayout(t Type) (size, alignment int, isReference bool) {
	switch t.Kind {
	case KindBool, KindInt8, KindUint8:
		return flat.SizeByte, flat.SizeByte, false
	case KindInt16, KindUint16:
		return flat.SizeInt16, flat.SizeInt16, false
	case KindInt32, KindUint32, KindFloat32:
		return flat.SizeInt32, flat.SizeInt32, false
	case KindInt64, KindUint64, KindFloat64:
		return flat.SizeInt64, flat.SizeInt64, false
	case KindObj:
		if t.Object != nil && t.Object.IsStruct {
			align := t.Object.MinAlign
			if align < 1 {
				align = 1
			}
			return t.Object.ByteSize, align, false
		}
		return flat.SizeUOffsetT, flat.SizeUOffsetT, true
	default: // KindString, KindVector, KindUnion
		return flat.SizeUOffsetT, flat.SizeUOffsetT, true
	}
}

func (l *loader) loadType(t flat.Table) (Type, error) {
	bt := baseType(t.GetInt8Slot(typeBaseType, int8(btNone)))
	kind, err := baseTypeToKind(bt)
	if err != nil {
		return Type{}, err
	}

	typ := Type{Kind: kind}
	index := int(t.GetInt32Slot(typeIndex, -1))

	switch kind {
	case KindVector:
		elemBT := baseType(t.GetInt8Slot(typeElement, int8(btNone)))
		elemKind, err := baseTypeToKind(elemBT)
		if err != nil {
			return Type{}, xerrors.Errorf("vector element: %w", err)
		}
		elem := Type{Kind: elemKind}
		if elemKind == KindObj && index >= 0 {
			elem.Object = l.objectsByIndex[index]
		}
		if elemKind == KindUnion && index >= 0 {
			elem.Enum = l.enumsByIndex[index]
		}
		typ.Element = &elem
	case KindObj:
		if index >= 0 {
			typ.Object = l.objectsByIndex[index]
		}
	case KindUnion:
		if index >= 0 {
			typ.Enum = l.enumsByIndex[index]
		}
	case KindInt8, KindUint8, KindInt16, KindUint16, KindInt32, KindUint32, KindInt64, KindUint64:
		// An enum-backed scalar names its Enum by the same index field.
		if index >= 0 {
			if e, ok := l.enumsByIndex[index]; ok {
				typ.Enum = e
			}
		}
	}

	ref := &typ
	if typ.Element != nil {
		ref = typ.Element
	}
	if index >= 0 && ((ref.Kind == KindObj && ref.Object == nil) || (ref.Kind == KindUnion && ref.Enum == nil)) {
		return Type{}, xerrors.Errorf("type index %d names no loaded object or enum", index)
	}
	return typ, nil
}

func baseTypeToKind(bt baseType) (TypeKind, error) {
	switch bt {
	case btBool:
		return KindBool, nil
	case btByte, btUByte:
		return KindUint8, nil
	case btShort:
		return KindInt16, nil
	case btUShort:
		return KindUint16, nil
	case btUType:
		return KindUint8, nil
	case btInt:
		return KindInt32, nil
	case btUInt:
		return KindUint32, nil
	case btLong:
		return KindInt64, nil
	case btULong:
		return KindUint64, nil
	case btFloat:
		return KindFloat32, nil
	case btDouble:
		return KindFloat64, nil
	case btString:
		return KindString, nil
	case btVector, btVector64, btArray:
		return KindVector, nil
	case btObj:
		return KindObj, nil
	case btUnion:
		return KindUnion, nil
	default:
		return 0, xerrors.Errorf("unsupported reflection base type %d", bt)
	}
}

func (l *loader) fillEnum(e *Enum, t flat.Table) error {
	e.Name = t.StringSlot(enumName)
	e.IsUnion = t.GetBoolSlot(enumIsUnion, false)

	if underlying, ok := t.TableSlot(enumUnderlyingType); ok {
		typ, err := l.loadType(underlying)
		if err != nil {
			return xerrors.Errorf("underlying_type: %w", err)
		}
		e.UnderlyingType = typ
	}

	start, length, ok := t.VectorSlot(enumValues)
	if !ok {
		return nil
	}
	e.Values = make([]*EnumVal, length)
	for i := 0; i < length; i++ {
		valTable := t.Indexed(start + flat.UOffsetT(i*flat.SizeUOffsetT))
		ev, err := l.loadEnumVal(valTable)
		if err != nil {
			return xerrors.Errorf("value %d: %w", i, err)
		}
		e.Values[i] = ev
	}
	return nil
}

func (l *loader) loadEnumVal(t flat.Table) (*EnumVal, error) {
	ev := &EnumVal{
		Name:  t.StringSlot(enumValName),
		Value: t.GetInt64Slot(enumValValue, 0),
	}
	if objTable, ok := t.TableSlot(enumValObject); ok {
		obj, err := l.resolveObjectByTable(objTable)
		if err == nil {
			ev.Object = obj
		}
	}
	return ev, nil
}
