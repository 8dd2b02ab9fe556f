package docgen

import (
	"encoding/json"
	"fmt"
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

// inline renders a descriptor or default on one line. Mappings are written as
// compact JSON with sorted keys.
func inline(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// inlineValue is inline, but strings are quoted so defaults read unambiguously.
func inlineValue(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return inline(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
