package param

// Kind distinguishes how a placeholder is substituted when a statement
// is rendered for the driver. Identifier kinds are quoted as SQL names
// on the client side; value kinds become driver-level positional
// arguments and are escaped by the driver, never by this package.
type Kind uint8

const (
	// KindIdentifier substitutes one quoted schema/table/column name.
	KindIdentifier Kind = iota
	// KindIdentifierList substitutes a comma-joined list of quoted names.
	KindIdentifierList
	// KindValue substitutes one driver-escaped literal.
	KindValue
	// KindValueList substitutes a comma-joined run of driver-escaped
	// literals, one positional argument per element.
	KindValueList
)

// Param is one entry in a statement's ordered parameter sequence. Exactly
// one of Name, Names, Val, Vals is meaningful, selected by Kind.
type Param struct {
	Kind  Kind
	Name  string
	Names []string
	Val   any
	Vals  []any
}

// Ident returns an identifier param for a single name.
func Ident(name string) Param {
	return Param{Kind: KindIdentifier, Name: name}
}

// IdentList returns an identifier-list param.
func IdentList(names ...string) Param {
	return Param{Kind: KindIdentifierList, Names: names}
}

// Val returns a value param.
func Val(v any) Param {
	return Param{Kind: KindValue, Val: v}
}

// ValList returns a value-list param.
func ValList(vs ...any) Param {
	return Param{Kind: KindValueList, Vals: vs}
}

// IsIdentifier reports whether the param substitutes as a quoted name.
func (p Param) IsIdentifier() bool {
	return p.Kind == KindIdentifier || p.Kind == KindIdentifierList
}

// Statement is one built statement: placeholder-bearing text plus the
// ordered params the placeholders refer to. Placeholders are written
// $1..$n and correspond 1:1, left to right, with Params. A Statement is
// immutable once returned by a builder.
//
// Raw marks a statement whose text was authored by the caller rather
// than a builder: its text is passed to the driver untouched and every
// param must be a value kind.
type Statement struct {
	Text   string
	Params []Param
	Raw    bool
}

// Values returns the flattened value arguments in order, skipping
// identifier params.
func (s Statement) Values() []any {
	var out []any
	for _, p := range s.Params {
		switch p.Kind {
		case KindValue:
			out = append(out, p.Val)
		case KindValueList:
			out = append(out, p.Vals...)
		}
	}
	return out
}

// CountKinds returns how many identifier-kind and value-kind params the
// statement carries.
func (s Statement) CountKinds() (identifiers, values int) {
	for _, p := range s.Params {
		if p.IsIdentifier() {
			identifiers++
		} else {
			values++
		}
	}
	return identifiers, values
}
