package resources

import (
	"bytes"
	"encoding/json"
	"strings"

	"tourtra/internal/store"
)

// Seed extracts the initial form values for editing a record. Field keys
// resolve against the record's JSON shape: direct keys first, then "xxx_id"
// against an embedded object's id, then "xxx_ids" against an embedded list.
// Secret fields are always seeded blank, whatever the source holds.
func Seed[T store.Record](rec T, fields []FormField) map[string]string {
	raw, err := json.Marshal(rec)
	if err != nil {
		return map[string]string{}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var flat map[string]any
	if err := dec.Decode(&flat); err != nil {
		return map[string]string{}
	}

	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Kind == Secret || f.Kind == File {
			out[f.Key] = ""
			continue
		}
		out[f.Key] = lookup(flat, f.Key)
	}
	return out
}

func lookup(flat map[string]any, key string) string {
	if v, ok := flat[key]; ok {
		if s := stringify(v); s != "" {
			return s
		}
	}
	if base, ok := strings.CutSuffix(key, "_ids"); ok {
		if list, ok := flat[base].([]any); ok {
			ids := make([]string, 0, len(list))
			for _, item := range list {
				if obj, ok := item.(map[string]any); ok {
					if id := stringify(obj["id"]); id != "" {
						ids = append(ids, id)
					}
				}
			}
			return strings.Join(ids, ",")
		}
	}
	if base, ok := strings.CutSuffix(key, "_id"); ok {
		if obj, ok := flat[base].(map[string]any); ok {
			return stringify(obj["id"])
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
