package toml

import (
	"github.com/BurntSushi/toml"

	jsonenc "github.com/bububa/gemini-go/encoding/json"
)

// Encoder stores values as TOML under their json field names. The top level
// value must encode to an object.
type Encoder struct{}

func NewEncoder() *Encoder {
	return new(Encoder)
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	tree, err := jsonenc.Tree(v)
	if err != nil {
		return nil, err
	}
	return toml.Marshal(tree)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	tree := make(map[string]any)
	if err := toml.Unmarshal(bs, &tree); err != nil {
		return err
	}
	return jsonenc.FromTree(tree, ret)
}
