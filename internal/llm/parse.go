package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Parse turns an extraction-service response into a RawFieldSet. The response
// shape is sniffed: a body starting with a JSON object token takes the JSON
// path, anything else is treated as 'Field: value' delimited lines. Both paths
// produce the same result type.
func Parse(content string, logger *slog.Logger) (RawFieldSet, error) {
	if logger == nil {
		logger = slog.Default()
	}
	body := stripCodeFence(strings.TrimSpace(content))
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}
	if strings.HasPrefix(body, "{") {
		return parseJSON([]byte(body), logger)
	}
	return parseLines(body)
}

// stripCodeFence removes a surrounding markdown code fence, which some models
// wrap around JSON bodies despite instructions.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// canonicalKeys maps normalized key spellings to canonical field names.
var canonicalKeys = func() map[string]string {
	m := make(map[string]string, len(FieldNames))
	for _, name := range FieldNames {
		m[normalizeKey(name)] = name
	}
	return m
}()

// normalizeKey lowercases and drops everything but letters and digits, so
// "*ContactName", "Contact Name" and "contact_name" all resolve identically.
func normalizeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// parseLines handles the delimited 'Field: value' response shape. Lines that
// match no known field are ignored, not errors.
func parseLines(body string) (RawFieldSet, error) {
	out := make(RawFieldSet)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name, ok := canonicalKeys[normalizeKey(key)]
		if !ok {
			continue
		}
		val := cleanScalar(rest)
		if val == "" {
			continue
		}
		out.SetIfEmpty(name, Scalar(val))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no recognizable fields in response")
	}
	return out, nil
}

// cleanScalar trims whitespace and drops template placeholders the model
// sometimes echoes back, e.g. "[Company Name]" or "N/A".
func cleanScalar(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*`")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return ""
	}
	if strings.EqualFold(s, "n/a") || strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// parseJSON handles the JSON object response shape: keys are canonicalized,
// unknown keys dropped, numeric values coerced to strings, and the cleaned
// document validated against the response schema before conversion.
func parseJSON(body []byte, logger *slog.Logger) (RawFieldSet, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode json response: %w", err)
	}

	cleaned := make(map[string]any, len(m))
	var dropped []string
	for k, v := range m {
		name, ok := canonicalKeys[normalizeKey(k)]
		if !ok {
			dropped = append(dropped, k)
			continue
		}
		if cv, ok := coerceValue(v); ok {
			cleaned[name] = cv
		} else {
			dropped = append(dropped, k)
		}
	}
	if len(dropped) > 0 {
		logger.Warn("llm.parse.dropped_keys", "keys", dropped)
	}

	doc, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode cleaned response: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildResponseJSONSchema(), doc); err != nil {
		return nil, fmt.Errorf("response shape: %w", err)
	}

	out := make(RawFieldSet, len(cleaned))
	for name, v := range cleaned {
		switch t := v.(type) {
		case string:
			if s := cleanScalar(t); s != "" {
				out[name] = Scalar(s)
			}
		case []string:
			var vs []string
			for _, s := range t {
				vs = append(vs, cleanScalar(s))
			}
			out[name] = List(vs...)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no recognizable fields in response")
	}
	return out, nil
}

// coerceValue normalizes a decoded JSON value to string or []string.
// Numbers become their decimal rendering; anything else is rejected.
func coerceValue(v any) (any, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return trimFloat(t), true
	case nil:
		return "", true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			cv, ok := coerceValue(e)
			if !ok {
				return nil, false
			}
			s, ok := cv.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	if f == float64(int64(f)) {
		s = fmt.Sprintf("%d", int64(f))
	}
	return s
}
