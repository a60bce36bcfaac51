package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/flatforge/flatforge/schema"
)

//go:embed templates/go/*.tmpl
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/go/*.tmpl"))

// fieldView is one schema.Field rendered into the shape builder.go.tmpl
// and verifier.go.tmpl actually walk.
type fieldView struct {
	GoName       string
	GoFieldType  string
	SlotIndex    int
	Alignment    int
	Size         int
	IsReference  bool
	PresentExpr  string
	ScalarExpr   string
	VerifyKind   string
	ElemSpecRef  string
	ElemIsString bool

	// IsUnion marks a folded (discriminant, payload) field pair: Build
	// emits two TableFields (a 1-byte Scalar tag at SlotIndex and a Ref
	// at UnionPayloadSlot), gated by the same PresentExpr, and the
	// verifier spec emits one verify.Field covering both slots.
	IsUnion          bool
	UnionPayloadSlot int
	// Variants is one Go expression per declared tag value (index 0
	// unused, matching the format's "0 = absent" convention): either a
	// *verify.TableSpec reference or the literal "nil".
	Variants []string
}

// objectView is one schema.Object rendered for both templates.
type objectView struct {
	Name      string
	GoName    string
	NumFields int
	Alignment int
	Fields    []fieldView
}

// structFieldView is one schema.Field of a struct object, rendered for
// the struct type and its Encode method.
type structFieldView struct {
	GoName      string
	GoFieldType string
	EncodeStmt  string
}

// structView is one struct schema.Object, rendered as a plain Go struct
// plus an Encode() []byte method builder.go.tmpl's scalarExpr calls into
// for any table field of this struct type.
type structView struct {
	Name     string
	GoName   string
	ByteSize int
	Fields   []structFieldView
}

// enumValueView is one named constant of an enumView.
type enumValueView struct {
	GoName  string
	Literal string
}

// enumView is one schema.Enum (including a union's own tag enum),
// rendered as a named Go integer type plus its constants.
type enumView struct {
	Name             string
	GoName           string
	UnderlyingGoType string
	Values           []enumValueView
}

// fileView is the top-level data handed to both templates.
type fileView struct {
	Package string
	Structs []structView
	Enums   []enumView
	Objects []objectView
}

// buildObjects renders every non-struct Object in s into the template
// input shape, skipping structs (which are emitted inline by their
// referencing field rather than getting their own Component/Spec).
func buildObjects(s *schema.Schema) []objectView {
	var views []objectView
	for _, obj := range s.Objects {
		if obj.IsStruct {
			continue
		}
		views = append(views, buildObjectView(obj))
	}
	return views
}

func buildObjectView(obj *schema.Object) objectView {
	v := objectView{
		Name:      obj.Name,
		GoName:    goIdent(obj.Name),
		NumFields: len(obj.Fields),
		Alignment: 1,
	}
	fields := obj.Fields
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if i+1 < len(fields) && isUnionTag(f) && fields[i+1].Type.Kind == schema.KindUnion && fields[i+1].Type.Enum == f.Type.Enum {
			payload := fields[i+1]
			v.Fields = append(v.Fields, buildUnionFieldView(i, payload))
			if payload.Alignment > v.Alignment {
				v.Alignment = payload.Alignment
			}
			i++ // the payload field was folded into the same fieldView
			continue
		}
		v.Fields = append(v.Fields, buildFieldView(i, f))
		if f.Alignment > v.Alignment {
			v.Alignment = f.Alignment
		}
	}
	if obj.MinAlign > v.Alignment {
		v.Alignment = obj.MinAlign
	}
	return v
}

// isUnionTag reports whether f is the hidden discriminant field a union
// field of the same Enum is expected to immediately follow: an inline
// byte-sized scalar backed by a union's tag enum.
func isUnionTag(f *schema.Field) bool {
	return !f.IsReference && f.Type.Kind == schema.KindUint8 && f.Type.Enum != nil && f.Type.Enum.IsUnion
}

// buildUnionFieldView folds a union field's discriminant (at tagIndex)
// and payload (the following declared field) into one fieldView: Slot is
// the discriminant's slot and UnionPayloadSlot the payload's, per the
// format's "two logical vtable slots" union layout.
func buildUnionFieldView(tagIndex int, payload *schema.Field) fieldView {
	fv := fieldView{
		GoName:           goIdent(payload.Name),
		GoFieldType:      "flat.Component",
		SlotIndex:        tagIndex,
		UnionPayloadSlot: tagIndex + 1,
		Alignment:        payload.Alignment,
		Size:             payload.Size,
		IsReference:      true,
		IsUnion:          true,
		VerifyKind:       "KindUnion",
		PresentExpr:      "c." + goIdent(payload.Name) + " != nil",
	}
	if payload.Type.Enum != nil {
		fv.Variants = make([]string, len(payload.Type.Enum.Values))
		for i, ev := range payload.Type.Enum.Values {
			if ev.Object != nil {
				fv.Variants[i] = goIdent(ev.Object.Name) + "Spec"
			} else {
				fv.Variants[i] = "nil"
			}
		}
	}
	return fv
}

func buildFieldView(index int, f *schema.Field) fieldView {
	fv := fieldView{
		GoName:      goIdent(f.Name),
		GoFieldType: goFieldType(f),
		SlotIndex:   index,
		Alignment:   f.Alignment,
		Size:        f.Size,
		IsReference: f.IsReference,
		PresentExpr: presentExpr(f),
	}
	if !f.IsReference {
		fv.ScalarExpr = scalarExpr(f)
		return fv
	}

	switch f.Type.Kind {
	case schema.KindString:
		fv.VerifyKind = "KindString"
	case schema.KindVector:
		if f.Type.Element != nil && f.Type.Element.Kind == schema.KindObj {
			fv.VerifyKind = "KindReferenceVector"
			if f.Type.Element.Object != nil {
				fv.ElemSpecRef = goIdent(f.Type.Element.Object.Name) + "Spec"
			}
		} else if f.Type.Element != nil && f.Type.Element.Kind == schema.KindString {
			fv.VerifyKind = "KindReferenceVector"
			fv.ElemIsString = true
		} else {
			fv.VerifyKind = "KindScalarVector"
			fv.Size = scalarElemSize(f.Type.Element)
		}
	case schema.KindObj:
		fv.VerifyKind = "KindTable"
		if f.Type.Object != nil {
			fv.ElemSpecRef = goIdent(f.Type.Object.Name) + "Spec"
		}
	case schema.KindUnion:
		fv.VerifyKind = "KindUnion"
	}
	return fv
}

func scalarElemSize(elem *schema.Type) int {
	if elem == nil {
		return 1
	}
	switch elem.Kind {
	case schema.KindBool, schema.KindInt8, schema.KindUint8:
		return 1
	case schema.KindInt16, schema.KindUint16:
		return 2
	case schema.KindInt32, schema.KindUint32, schema.KindFloat32:
		return 4
	default:
		return 8
	}
}

// scalarExpr renders an inline expression that encodes a scalar field's
// builder value into the little-endian []byte flat.TableField.Scalar
// expects. An inline struct field is expected to supply its own
// Encode() []byte method, matching how the format packs struct fields:
// a contiguous little-endian byte run the field type itself owns.
func scalarExpr(f *schema.Field) string {
	if _, ok := structType(f.Type); ok {
		return fmt.Sprintf("c.%s.Encode()", goIdent(f.Name))
	}
	encodeFn, width := scalarEncoder(f.Type.Kind)
	return fmt.Sprintf("func() []byte { var buf [%d]byte; flat.%s(buf[:], %s); return buf[:] }()",
		width, encodeFn, scalarValueExpr(f, "c."+goIdent(f.Name)))
}

// scalarValueExpr wraps expr with a conversion to its underlying scalar
// Go type when f is an enum-backed field — the generated field's own Go
// type is the named enum (see goFieldType), so Write* (which takes the
// underlying width's native type) needs an explicit cast.
func scalarValueExpr(f *schema.Field, expr string) string {
	if f.Type.Enum != nil && !f.Type.Enum.IsUnion {
		return fmt.Sprintf("%s(%s)", goScalarType(f.Type.Kind), expr)
	}
	return expr
}

func scalarEncoder(k schema.TypeKind) (fn string, width int) {
	switch k {
	case schema.KindBool:
		return "WriteBool", 1
	case schema.KindInt8:
		return "WriteInt8", 1
	case schema.KindUint8:
		return "WriteUint8", 1
	case schema.KindInt16:
		return "WriteInt16", 2
	case schema.KindUint16:
		return "WriteUint16", 2
	case schema.KindInt32:
		return "WriteInt32", 4
	case schema.KindUint32:
		return "WriteUint32", 4
	case schema.KindFloat32:
		return "WriteFloat32", 4
	case schema.KindInt64:
		return "WriteInt64", 8
	case schema.KindUint64:
		return "WriteUint64", 8
	case schema.KindFloat64:
		return "WriteFloat64", 8
	default:
		return "WriteByte", 1
	}
}

// buildStructs renders every struct Object in s as a plain Go struct plus
// an Encode() []byte method — the "Scalar implementations for every
// struct" a table field of that type calls into via scalarExpr.
func buildStructs(s *schema.Schema) []structView {
	var views []structView
	for _, obj := range s.Objects {
		if obj.IsStruct {
			views = append(views, buildStructView(obj))
		}
	}
	return views
}

func buildStructView(obj *schema.Object) structView {
	v := structView{Name: obj.Name, GoName: goIdent(obj.Name), ByteSize: obj.ByteSize}
	for _, f := range obj.Fields {
		goName := goIdent(f.Name)
		v.Fields = append(v.Fields, structFieldView{
			GoName:      goName,
			GoFieldType: goFieldType(f),
			EncodeStmt:  structFieldEncodeStmt(f, goName),
		})
	}
	return v
}

// structFieldEncodeStmt renders the statement that packs one struct
// field's value into buf at its declared member offset: a nested
// recursive Encode() for a struct-typed field, or a direct little-endian
// write (cast to the field's underlying scalar type first, for an
// enum-backed field) otherwise.
func structFieldEncodeStmt(f *schema.Field, goName string) string {
	if _, ok := structType(f.Type); ok {
		return fmt.Sprintf("copy(buf[%d:], s.%s.Encode())", f.Offset, goName)
	}
	encodeFn, _ := scalarEncoder(f.Type.Kind)
	return fmt.Sprintf("flat.%s(buf[%d:], %s)", encodeFn, f.Offset, scalarValueExpr(f, "s."+goName))
}

// buildEnums renders every Enum in s (including a union's own hidden tag
// enum) as a named Go integer type plus its constants — the "Scalar
// implementations for every enum" a default-value or union-tag
// expression references.
func buildEnums(s *schema.Schema) []enumView {
	var views []enumView
	for _, e := range s.Enums {
		views = append(views, buildEnumView(e))
	}
	return views
}

func buildEnumView(e *schema.Enum) enumView {
	underlying := goScalarType(e.UnderlyingType.Kind)
	if underlying == "" {
		underlying = "uint8"
	}
	v := enumView{Name: e.Name, GoName: goIdent(e.Name), UnderlyingGoType: underlying}
	for _, ev := range e.Values {
		v.Values = append(v.Values, enumValueView{GoName: goIdent(ev.Name), Literal: formatInt(ev.Value)})
	}
	return v
}

// Render executes both templates against s's objects and returns the
// builder and verifier source bytes.
func Render(pkg string, s *schema.Schema) (builderSrc, verifierSrc []byte, err error) {
	data := fileView{
		Package: pkg,
		Structs: buildStructs(s),
		Enums:   buildEnums(s),
		Objects: buildObjects(s),
	}

	var builderBuf, verifierBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&builderBuf, "builder.go.tmpl", data); err != nil {
		return nil, nil, NewRenderError("rendering builder template", err)
	}
	if err := tmpl.ExecuteTemplate(&verifierBuf, "verifier.go.tmpl", data); err != nil {
		return nil, nil, NewRenderError("rendering verifier template", err)
	}
	return builderBuf.Bytes(), verifierBuf.Bytes(), nil
}
