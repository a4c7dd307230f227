package gemini

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/invopop/jsonschema"
)

// maxSchemaDepth bounds $ref expansion; the API has no references so recursive types must be cut.
const maxSchemaDepth = 16

var reflectorPool = sync.Pool{
	New: func() any {
		return &jsonschema.Reflector{Namer: schemaNamer}
	},
}

// converted schemas keyed by typeKey
var schemaCache sync.Map

// SchemaFor derives the response schema of T from its json and jsonschema struct tags.
func SchemaFor[T any]() (*Schema, error) {
	return SchemaOf(reflect.TypeFor[T]())
}

// SchemaOf is SchemaFor for a reflect.Type. Results are cached per type.
func SchemaOf(t reflect.Type) (*Schema, error) {
	key := typeKey(t)
	if v, ok := schemaCache.Load(key); ok {
		return v.(*Schema), nil
	}
	src := JSONSchema(t)
	schema, err := convertSchema(src, src.Definitions, 0)
	if err != nil {
		return nil, err
	}
	v, _ := schemaCache.LoadOrStore(key, schema)
	return v.(*Schema), nil
}

// FunctionDeclarationFor declares a function whose parameters are the fields of T.
func FunctionDeclarationFor[T any](name, description string) (FunctionDeclaration, error) {
	params, err := SchemaFor[T]()
	if err != nil {
		return FunctionDeclaration{}, err
	}
	return FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters:  params,
	}, nil
}

// JSONSchema return the json schema of the type
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	r := reflectorPool.Get().(*jsonschema.Reflector)
	defer reflectorPool.Put(r)
	return r.ReflectFromType(t)
}

// Struct names can collide across packages, so definitions are named by a hash of the package path and name.
func schemaNamer(t reflect.Type) string {
	name := t.Name()
	if t.Kind() == reflect.Struct {
		name = strconv.FormatUint(xxhash.Sum64String(t.PkgPath()+"/"+t.Name()), 10)
	}
	return name
}

func typeKey(t reflect.Type) uint64 {
	return xxhash.Sum64String(t.PkgPath() + "/" + t.String())
}

func convertSchema(src *jsonschema.Schema, defs jsonschema.Definitions, depth int) (*Schema, error) {
	if depth > maxSchemaDepth {
		return nil, ErrSchemaDepth
	}
	if src.Ref != "" {
		name := src.Ref[strings.LastIndexByte(src.Ref, '/')+1:]
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSchemaRef, src.Ref)
		}
		dist, err := convertSchema(def, defs, depth+1)
		if err != nil {
			return nil, err
		}
		if src.Description != "" {
			dist.Description = src.Description
		}
		return dist, nil
	}

	dist := &Schema{
		Type:        Type(src.Type),
		Format:      src.Format,
		Description: src.Description,
	}
	// pointer and "null" unions come out as anyOf/oneOf
	if dist.Type == "" {
		variants := src.AnyOf
		if len(variants) == 0 {
			variants = src.OneOf
		}
		for _, v := range variants {
			if v.Type == "null" {
				dist.Nullable = true
				continue
			}
			inner, err := convertSchema(v, defs, depth+1)
			if err != nil {
				return nil, err
			}
			inner.Nullable = inner.Nullable || dist.Nullable
			if inner.Description == "" {
				inner.Description = dist.Description
			}
			dist = inner
		}
	}
	for _, v := range src.Enum {
		dist.Enum = append(dist.Enum, fmt.Sprint(v))
	}
	if src.MinItems != nil {
		dist.MinItems = strconv.FormatUint(*src.MinItems, 10)
	}
	if src.MaxItems != nil {
		dist.MaxItems = strconv.FormatUint(*src.MaxItems, 10)
	}
	if src.Items != nil {
		items, err := convertSchema(src.Items, defs, depth+1)
		if err != nil {
			return nil, err
		}
		dist.Items = items
	}
	if src.Properties != nil && src.Properties.Len() > 0 {
		dist.Properties = make(map[string]*Schema, src.Properties.Len())
		for pair := src.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop, err := convertSchema(pair.Value, defs, depth+1)
			if err != nil {
				return nil, err
			}
			dist.Properties[pair.Key] = prop
			dist.PropertyOrdering = append(dist.PropertyOrdering, pair.Key)
		}
	}
	if len(src.Required) > 0 {
		dist.Required = append([]string(nil), src.Required...)
	}
	return dist, nil
}
