package intake

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// DecodeError reports a document that could not be parsed or whose shape
// could not be recognised.
type DecodeError struct {
	Source  string
	Format  Format
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: decode %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Format, e.Message)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: decode %s: %s", e.Source, e.Format, e.Message)
	}
	return fmt.Sprintf("decode %s: %s", e.Format, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Violation is one failed struct-tag rule.
type Violation struct {
	Field string // path using document field names, e.g. productOrderItem[1].id
	Tag   string
}

func (v Violation) String() string {
	switch v.Tag {
	case "required":
		return fmt.Sprintf("field '%s' is required", v.Field)
	default:
		return fmt.Sprintf("field '%s' validation failed on '%s' tag", v.Field, v.Tag)
	}
}

// SchemaError lists every struct-tag violation found in a document.
type SchemaError struct {
	Source     string
	Kind       Kind
	Violations []Violation
}

func (e *SchemaError) Error() string {
	msgs := lo.Map(e.Violations, func(v Violation, _ int) string { return v.String() })
	prefix := string(e.Kind)
	if e.Source != "" {
		prefix = e.Source + ": " + prefix
	}
	return fmt.Sprintf("%s: schema: %s", prefix, strings.Join(msgs, "; "))
}

func newSchemaError(kind Kind, errs validator.ValidationErrors) *SchemaError {
	se := &SchemaError{Kind: kind}
	for _, fe := range errs {
		se.Violations = append(se.Violations, Violation{
			Field: trimRoot(fe.Namespace()),
			Tag:   fe.Tag(),
		})
	}
	return se
}

// trimRoot drops the leading struct name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
