package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flatforge/flatforge/schema"
)

// goIdent converts a schema-declared name (snake_case or already
// PascalCase, per upstream .fbs convention) to an exported Go identifier.
func goIdent(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// goUnexported lower-cases just the first rune of an already-exported
// identifier, for parameter and local-variable names derived from field
// names.
func goUnexported(name string) string {
	ident := goIdent(name)
	if ident == "" {
		return ident
	}
	return strings.ToLower(ident[:1]) + ident[1:]
}

// goScalarType maps a normalized schema.TypeKind to the Go type its
// generated accessor returns.
func goScalarType(k schema.TypeKind) string {
	switch k {
	case schema.KindBool:
		return "bool"
	case schema.KindInt8:
		return "int8"
	case schema.KindUint8:
		return "uint8"
	case schema.KindInt16:
		return "int16"
	case schema.KindUint16:
		return "uint16"
	case schema.KindInt32:
		return "int32"
	case schema.KindUint32:
		return "uint32"
	case schema.KindInt64:
		return "int64"
	case schema.KindUint64:
		return "uint64"
	case schema.KindFloat32:
		return "float32"
	case schema.KindFloat64:
		return "float64"
	case schema.KindString:
		return "string"
	default:
		return ""
	}
}

// goFieldType renders a builder struct field's Go type: a scalar's
// native type for an inline field, the declared enum's own Go type for
// an enum-backed scalar, or flat.Component for anything the caller must
// hand a pre-built string/vector/table/union component for.
func goFieldType(f *schema.Field) string {
	if f.IsReference {
		return "flat.Component"
	}
	if t, ok := structType(f.Type); ok {
		return t
	}
	if f.Type.Enum != nil && !f.Type.Enum.IsUnion {
		return goIdent(f.Type.Enum.Name)
	}
	return goScalarType(f.Type.Kind)
}

// structType renders the Go type for an inline (non-reference) struct
// field: the struct's own generated name.
func structType(t schema.Type) (string, bool) {
	if t.Kind == schema.KindObj && t.Object != nil && t.Object.IsStruct {
		return goIdent(t.Object.Name), true
	}
	return "", false
}

// zeroValue renders the Go zero-value literal a generated default should
// fall back to when a field's declared default isn't representable more
// specifically (see defaultLiteral).
func zeroValue(k schema.TypeKind) string {
	switch k {
	case schema.KindBool:
		return "false"
	case schema.KindString:
		return `""`
	case schema.KindFloat32, schema.KindFloat64:
		return "0"
	default:
		return "0"
	}
}

// defaultLiteral renders a Field's declared default value as a Go
// literal of its native type: bool->true/false, integer/float types
// decimal, enum->the declared enum constant whose numeric value equals
// the default (falling back to the enum's first declared value), and
// reference/struct types their absent/zero sentinel.
func defaultLiteral(f *schema.Field) string {
	if f.Type.Enum != nil && !f.Type.Enum.IsUnion {
		return enumValueIdent(f.Type.Enum, f.DefaultInteger)
	}
	switch f.Type.Kind {
	case schema.KindFloat32, schema.KindFloat64:
		return formatFloat(f.DefaultReal)
	case schema.KindBool:
		if f.DefaultInteger != 0 {
			return "true"
		}
		return "false"
	case schema.KindString, schema.KindVector, schema.KindObj, schema.KindUnion:
		return zeroValue(f.Type.Kind)
	default:
		return formatInt(f.DefaultInteger)
	}
}

// enumValueIdent renders the generated constant name for the value of e
// whose declared numeric value equals v, falling back to e's first
// declared value (matching the format's own "unknown enum default falls
// back to the first member" convention) when no value matches exactly.
func enumValueIdent(e *schema.Enum, v int64) string {
	for _, ev := range e.Values {
		if ev.Value == v {
			return goIdent(e.Name) + goIdent(ev.Name)
		}
	}
	if len(e.Values) > 0 {
		return goIdent(e.Name) + goIdent(e.Values[0].Name)
	}
	return formatInt(v)
}

// presentExpr renders a Go boolean expression testing whether a builder
// field's current value should be considered present on the wire,
// matching the vtable's own absent-is-omitted convention: a reference
// field is present when non-nil (a string additionally only when
// non-empty), and an inline scalar/struct field is present when it
// differs from its declared default.
func presentExpr(f *schema.Field) string {
	name := "c." + goIdent(f.Name)
	if f.IsReference {
		if f.Type.Kind == schema.KindString {
			return fmt.Sprintf(
				"func() bool { switch s := %s.(type) { case nil: return false; case flat.StringComponent: return s.Value != \"\"; case *flat.StringComponent: return s != nil && s.Value != \"\"; default: return true } }()",
				name)
		}
		return name + " != nil"
	}
	if _, ok := structType(f.Type); ok {
		return "true"
	}
	return fmt.Sprintf("%s != %s", name, defaultLiteral(f))
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
