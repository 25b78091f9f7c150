package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ExtractJSON pulls a JSON object out of free-form model text. It first
// tries the whole trimmed string, then the substring between the first
// '{' and the last '}'. Unparseable text yields an empty, non-nil map so
// callers can fall through to their defaults without nil checks.
func ExtractJSON(text string) map[string]interface{} {
	trimmed := strings.TrimSpace(text)
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil && out != nil {
		return out
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end != -1 && end > start {
		out = nil
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &out); err == nil && out != nil {
			return out
		}
	}
	return map[string]interface{}{}
}

func strField(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return def
}

// floatField tolerates quoted numbers: models regularly emit
// "confidence":"0.8" instead of a bare number.
func floatField(m map[string]interface{}, key string, def float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}
