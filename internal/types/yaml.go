package types

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeKnown decodes a mapping node into mirror and rejects keys that mirror
// has no yaml field for. Node.Decode does not inherit KnownFields from the
// outer decoder, so custom unmarshalers check the keys themselves.
func decodeKnown(node *yaml.Node, mirror any) error {
	if node.Kind == yaml.MappingNode {
		known := yamlKeys(reflect.TypeOf(mirror).Elem())

		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if !slices.Contains(known, key.Value) {
				return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
			}
		}
	}

	return node.Decode(mirror)
}

func yamlKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			keys = append(keys, name)
		}
	}

	return keys
}
