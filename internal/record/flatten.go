package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Flatten maps every leaf of a JSON object to its dotted path. Object keys
// join with ".", array elements append "[i]". Containers never become
// entries themselves, and non-object values flatten to an empty map.
func Flatten(value any) map[string]string {
	out := make(map[string]string)
	obj, ok := value.(map[string]any)
	if !ok {
		return out
	}
	for key, child := range obj {
		flattenInto(out, key, child)
	}
	return out
}

func flattenInto(out map[string]string, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flattenInto(out, next, child)
		}
	case []any:
		for i, child := range v {
			flattenInto(out, prefix+"["+strconv.Itoa(i)+"]", child)
		}
	default:
		if prefix != "" {
			out[prefix] = Stringify(v)
		}
	}
}

// Stringify renders a JSON leaf as text. Null becomes "null"; numbers keep
// their source text when decoded with UseNumber.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
