// Package encoding selects the on-disk format of persisted chat history.
package encoding

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	jsonenc "github.com/bububa/gemini-go/encoding/json"
	tomlenc "github.com/bububa/gemini-go/encoding/toml"
	yamlenc "github.com/bububa/gemini-go/encoding/yaml"
)

var ErrUnsupportedFormat = errors.New("gemini: unsupported history format")

// Codec encodes and decodes values that carry json struct tags.
type Codec interface {
	Marshal(any) ([]byte, error)
	Unmarshal([]byte, any) error
}

// ForPath picks a Codec from the extension of path.
func ForPath(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return jsonenc.NewEncoder(), nil
	case ".yaml", ".yml":
		return yamlenc.NewEncoder(), nil
	case ".toml":
		return tomlenc.NewEncoder(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
