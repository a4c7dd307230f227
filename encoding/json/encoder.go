package json

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/bububa/ljson"
	"github.com/go-playground/validator/v10"
)

// Encoder decodes the JSON a model writes. Replies are often wrapped in prose
// or a markdown fence, so everything around the outermost object or array is
// dropped first and the rest goes through the lenient ljson decoder.
type Encoder struct {
	validate *validator.Validate
}

func NewEncoder() *Encoder {
	return &Encoder{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return ljson.Unmarshal(cleanup(bs), ret)
}

// Validate checks validate tags on a struct, or on every struct of a slice.
func (e *Encoder) Validate(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct:
		return e.validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			item := reflect.Indirect(rv.Index(i))
			if item.Kind() != reflect.Struct {
				continue
			}
			if err := e.validate.Struct(item.Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Context renders an instruction holding a fake instance of v's type, for
// models that ignore responseSchema.
func (e *Encoder) Context(v any) []byte {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	instance := reflect.New(t).Interface()
	if err := gofakeit.Struct(instance); err != nil {
		return nil
	}
	bs, err := e.Marshal(instance)
	if err != nil {
		return nil
	}
	var b bytes.Buffer
	b.WriteString("\nPlease respond with JSON shaped like this example:\n")
	b.WriteString("```json\n")
	b.Write(bs)
	b.WriteString("\n```\n")
	b.WriteString("Make sure to return your own values, not the example itself\n")
	return b.Bytes()
}

// cleanup the JSON by trimming prefixes and postfixes
func cleanup(bs []byte) []byte {
	return trimPostfixAfterJSON(trimPrefixBeforeJSON(bs))
}

// Removes any prefixes before the JSON (like "Sure, here you go:")
func trimPrefixBeforeJSON(bs []byte) []byte {
	startObject := bytes.IndexByte(bs, '{')
	startArray := bytes.IndexByte(bs, '[')

	var start int
	if startObject == -1 && startArray == -1 {
		return bs
	} else if startObject == -1 {
		start = startArray
	} else if startArray == -1 {
		start = startObject
	} else {
		start = min(startObject, startArray)
	}

	return bs[start:]
}

// Removes any postfixes after the JSON
func trimPostfixAfterJSON(bs []byte) []byte {
	endObject := bytes.LastIndexByte(bs, '}')
	endArray := bytes.LastIndexByte(bs, ']')

	var end int
	if endObject == -1 && endArray == -1 {
		return bs
	} else if endObject == -1 {
		end = endArray
	} else if endArray == -1 {
		end = endObject
	} else {
		end = max(endObject, endArray)
	}

	return bs[:end+1]
}

// Tree converts v into the generic form encoding/json produces, so formats
// that do not read json tags still see the wire field names.
func Tree(v any) (any, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(bs, &tree); err != nil {
		return nil, err
	}
	return dropNulls(tree), nil
}

// FromTree is the inverse of Tree.
func FromTree(tree any, ret any) error {
	bs, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return json.Unmarshal(bs, ret)
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			if item == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(item)
		}
	case []any:
		for i, item := range t {
			t[i] = dropNulls(item)
		}
	}
	return v
}
