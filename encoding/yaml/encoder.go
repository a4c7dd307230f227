package yaml

import (
	"bytes"

	"gopkg.in/yaml.v3"

	jsonenc "github.com/bububa/gemini-go/encoding/json"
)

// Encoder stores values as YAML under their json field names.
type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	tree, err := jsonenc.Tree(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	var tree any
	if err := yaml.Unmarshal(cleanup(bs), &tree); err != nil {
		return err
	}
	return jsonenc.FromTree(tree, ret)
}

func cleanup(bs []byte) []byte {
	return bytes.TrimSpace(bs)
}
