package skema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error type tags (exported consts for IDE completion and type safety by convention)
const (
	TypeInvalidType     = "invalid_type"
	TypeBlank           = "blank"
	TypeTooShort        = "too_short"
	TypeTooLong         = "too_long"
	TypeGreaterEqual    = "greater_than_or_equal_to"
	TypeLessEqual       = "less_than_or_equal_to"
	TypeGreater         = "greater_than"
	TypeLess            = "less_than"
	TypeNotMultiple     = "not_multiple_of"
	TypeInclusion       = "inclusion"
	TypeEqualTo         = "equal_to"
	TypeInvalid         = "invalid"
	TypeTooFewItems     = "too_few_items"
	TypeTooManyItems    = "too_many_items"
	TypeNotUnique       = "not_unique"
	TypeAdditionalItems = "additional_items"
	TypeUnknownKey      = "unknown_key"
	TypeNoMatch         = "no_match"
	TypeAmbiguous       = "ambiguous_match"
)

// Error is a single validation finding.
type Error struct {
	Attribute string // Dotted path, e.g. "email.address" or "items[2].id".
	Message   string // e.g. "is not a valid string".
	Type      string // One of the type tags above.
	// Params carries structured parameters (e.g., {"count": 3}) used to build
	// the message.
	Params map[string]any
}

// FullMessage joins the humanized attribute and the message, as in
// "Email address is not a valid string".
func (e Error) FullMessage() string {
	attr := Humanize(e.Attribute)
	if attr == "" {
		return e.Message
	}
	return attr + " " + e.Message
}

// Rebase returns a copy of e with its attribute nested under parent.
func (e Error) Rebase(parent string) Error {
	e.Attribute = JoinPath(parent, e.Attribute)
	return e
}

// Errors is an ordered collection of findings that implements error.
type Errors []Error

// Error summarizes the first few entries.
func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(es)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. name is not a valid string
		fmt.Fprintf(b, "%s %s", es[i].Attribute, es[i].Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Rebase nests every entry under parent.
func (es Errors) Rebase(parent string) Errors {
	if len(es) == 0 {
		return es
	}
	out := make(Errors, len(es))
	for i, e := range es {
		out[i] = e.Rebase(parent)
	}
	return out
}

// FullMessages returns FullMessage for every entry.
func (es Errors) FullMessages() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.FullMessage()
	}
	return out
}

// AppendErrors appends entries to the destination, initializing the slice
// when needed.
func AppendErrors(dst Errors, more ...Error) Errors {
	if dst == nil {
		dst = Errors{}
	}
	return append(dst, more...)
}

// AsErrors extracts Errors from an error using errors.As internally.
func AsErrors(err error) (Errors, bool) {
	if err == nil {
		return nil, false
	}
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	return nil, false
}

// Humanize turns an attribute path into words: "email.address" becomes
// "Email address", "first_name" becomes "First name".
func Humanize(attr string) string {
	if attr == "" {
		return ""
	}
	s := strings.NewReplacer(".", " ", "_", " ").Replace(attr)
	s = strings.Join(strings.Fields(s), " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CompileKind classifies a compile failure.
type CompileKind int

const (
	UnsupportedType CompileKind = iota + 1
	UnsupportedConstraint
	InvalidCompositionMember
	EmptyTuple
	InvalidConstraintValue
	ConflictingDefinition
)

// Sentinels matched by errors.Is against a *CompileError of the same kind.
var (
	ErrUnsupportedType          = errors.New("skema: unsupported type")
	ErrUnsupportedConstraint    = errors.New("skema: unsupported constraint")
	ErrInvalidCompositionMember = errors.New("skema: invalid composition member")
	ErrEmptyTuple               = errors.New("skema: tuple requires at least one item type")
	ErrInvalidConstraintValue   = errors.New("skema: invalid constraint value")
	ErrConflictingDefinition    = errors.New("skema: conflicting shared definition")
)

func (k CompileKind) sentinel() error {
	switch k {
	case UnsupportedType:
		return ErrUnsupportedType
	case UnsupportedConstraint:
		return ErrUnsupportedConstraint
	case InvalidCompositionMember:
		return ErrInvalidCompositionMember
	case EmptyTuple:
		return ErrEmptyTuple
	case InvalidConstraintValue:
		return ErrInvalidConstraintValue
	case ConflictingDefinition:
		return ErrConflictingDefinition
	}
	return nil
}

// CompileError reports a declaration the compiler cannot translate. It names
// the property, the type and, for constraint failures, the keyword.
type CompileError struct {
	Kind     CompileKind
	Property string
	Type     string
	Keyword  string
	Detail   string
}

func (e *CompileError) Error() string {
	b := &strings.Builder{}
	if s := e.Kind.sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString("skema: compile error")
	}
	if e.Keyword != "" {
		fmt.Fprintf(b, " %q", e.Keyword)
	}
	if e.Type != "" {
		fmt.Fprintf(b, " for type %s", e.Type)
	}
	if e.Property != "" {
		fmt.Fprintf(b, " on property %q", e.Property)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Is matches the sentinel of the error kind.
func (e *CompileError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// AsCompileError extracts a *CompileError using errors.As internally.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
