package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ordergraph/internal/order"
)

// Format is the encoding of an order document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", &DecodeError{
		Source:  path,
		Format:  Format(strings.TrimPrefix(ext, ".")),
		Message: fmt.Sprintf("unsupported file extension %q (want .json, .yaml, .yml or .cue)", ext),
	}
}

// LoadFile reads and decodes the order document at path.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return decode(data, format, path)
}

// Decode parses an order document held in memory.
func Decode(data []byte, format Format) (*Document, error) {
	return decode(data, format, "")
}

func decode(data []byte, format Format, source string) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(data, source)
	case FormatYAML:
		doc, err = decodeYAML(data, source)
	case FormatCUE:
		doc, err = decodeCUE(data, source)
	default:
		return nil, &DecodeError{Source: source, Format: format, Message: "unsupported format"}
	}
	if err != nil {
		return nil, err
	}

	doc.Source = source
	doc.Format = format
	if err := checkSchema(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func newDocument(kind Kind) *Document {
	doc := &Document{Kind: kind}
	switch kind {
	case KindProductOrder:
		doc.ProductOrder = &order.ProductOrder{}
	case KindServiceOrder:
		doc.ServiceOrder = &order.ServiceOrder{}
	default:
		doc.Order = &order.Order{}
	}
	return doc
}

// detectKind picks the document kind from the item collection key present
// at the top level. Exactly one must be present.
func detectKind(has func(key string) bool) (Kind, error) {
	var found []Kind
	for _, kind := range []Kind{KindOrder, KindProductOrder, KindServiceOrder} {
		if has(itemsKey[kind]) {
			found = append(found, kind)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", errors.New("no item collection found (want one of items, productOrderItem, serviceOrderItem)")
	default:
		return "", fmt.Errorf("ambiguous document: both %s and %s present",
			itemsKey[found[0]], itemsKey[found[1]])
	}
}

func decodeJSON(data []byte, source string) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, jsonDecodeError(source, err)
	}
	kind, err := detectKind(func(key string) bool {
		_, ok := top[key]
		return ok
	})
	if err != nil {
		return nil, &DecodeError{Source: source, Format: FormatJSON, Message: err.Error(), Err: err}
	}

	doc := newDocument(kind)
	if err := json.Unmarshal(data, doc.record()); err != nil {
		return nil, jsonDecodeError(source, err)
	}
	return doc, nil
}

func jsonDecodeError(source string, err error) *DecodeError {
	de := &DecodeError{Source: source, Format: FormatJSON, Message: err.Error(), Err: err}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		de.Message = fmt.Sprintf("%s (offset %d)", syntaxErr.Error(), syntaxErr.Offset)
	case errors.As(err, &typeErr):
		de.Message = fmt.Sprintf("field '%s' should be %s", typeErr.Field, typeErr.Type.String())
	}
	return de
}

func decodeYAML(data []byte, source string) (*Document, error) {
	var top map[string]any
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, &DecodeError{Source: source, Format: FormatYAML, Message: err.Error(), Err: err}
	}
	kind, err := detectKind(func(key string) bool {
		_, ok := top[key]
		return ok
	})
	if err != nil {
		return nil, &DecodeError{Source: source, Format: FormatYAML, Message: err.Error(), Err: err}
	}

	doc := newDocument(kind)
	if err := yaml.Unmarshal(data, doc.record()); err != nil {
		return nil, &DecodeError{Source: source, Format: FormatYAML, Message: err.Error(), Err: err}
	}
	return doc, nil
}

// decodeCUE evaluates the document with the CUE SDK and decodes the
// resulting concrete value. Definitions and hidden fields are not part of
// the decoded order.
func decodeCUE(data []byte, source string) (*Document, error) {
	filename := source
	if filename == "" {
		filename = "order.cue"
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueDecodeError(source, err)
	}

	kind, err := detectKind(func(key string) bool {
		return v.LookupPath(cue.MakePath(cue.Str(key))).Exists()
	})
	if err != nil {
		return nil, &DecodeError{Source: source, Format: FormatCUE, Message: err.Error(), Err: err}
	}

	doc := newDocument(kind)
	if err := v.Decode(doc.record()); err != nil {
		return nil, cueDecodeError(source, err)
	}
	return doc, nil
}

// cueDecodeError keeps the position of the first CUE error.
func cueDecodeError(source string, err error) *DecodeError {
	de := &DecodeError{Source: source, Format: FormatCUE, Message: err.Error(), Err: err}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return de
	}
	first := errs[0]
	de.Message = first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		de.Pos = positions[0]
	}
	return de
}

var schema = newSchemaValidator()

// newSchemaValidator reports field paths using the document's own field
// names rather than Go struct names.
func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkSchema(doc *Document) error {
	err := schema.Struct(doc.record())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		se := newSchemaError(doc.Kind, verrs)
		se.Source = doc.Source
		return se
	}
	return fmt.Errorf("schema check: %w", err)
}
