package llm

import (
	"encoding/json"
	"strings"
)

// DecodeJSON locates a JSON object in model output and unmarshals it into v.
// Models often wrap the object in prose or a fenced code block.
func DecodeJSON(text string, v any) error {
	t := strings.TrimSpace(text)

	if strings.HasPrefix(t, "{") {
		if err := json.Unmarshal([]byte(t), v); err == nil {
			return nil
		}
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(t[start:end+1]), v)
	}
	return json.Unmarshal([]byte(t), v)
}
