package routes

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routetree/internal/errors"
)

// Format is the encoding of a route configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file name's extension.
// Anything that is not ".yaml" or ".yml" is treated as JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a route configuration document. The document is either a
// list of routes or an object with a "routes" list.
func Decode(data []byte, format Format) (Routes, error) {
	var (
		config Routes
		err    error
	)
	switch format {
	case FormatYAML:
		config, err = decodeYAML(data)
	default:
		config, err = decodeJSON(data)
	}
	if err != nil {
		return nil, errors.New("R102").WithDetail("cannot decode route configuration").Wrap(err)
	}
	return config, nil
}

type document struct {
	Routes Routes `json:"routes" yaml:"routes"`
}

func decodeJSON(data []byte) (Routes, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return doc.Routes, nil
	}
	var config Routes
	if err := json.Unmarshal(trimmed, &config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeYAML(data []byte) (Routes, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return Routes{}, nil
	}
	if node.Content[0].Kind == yaml.MappingNode {
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Routes, nil
	}
	var config Routes
	if err := node.Decode(&config); err != nil {
		return nil, err
	}
	return config, nil
}
