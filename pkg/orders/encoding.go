package orders

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/strcase"
)

// marshalSnakeCase encodes v as JSON with every object key converted to snake_case.
func marshalSnakeCase(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode intermediate json: %w", err)
	}
	return json.Marshal(snakeKeys(tree))
}

func snakeKeys(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[strcase.ToSnake(k)] = snakeKeys(v)
		}
		return out
	case []any:
		for i := range n {
			n[i] = snakeKeys(n[i])
		}
		return n
	default:
		return node
	}
}
