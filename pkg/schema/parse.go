package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// descriptor keys that turn a mapping into a constrained single-value schema.
var predicateKeys = map[string]bool{
	"type": true, ">": true, ">=": true, "<": true, "<=": true,
	"one_of": true, "min_len": true, "max_len": true, "pattern": true,
	"items": true, "fields": true,
	EngineExpr: true, EngineCEL: true, EngineJS: true,
}

const (
	keyRequiredKeys = "$required_keys"
	keyStrict       = "$strict"
)

// ParseType converts a type tag to a Schema.
// Supports "string", "int", "float", "bool", "map" (alias "dict"), "list",
// "any" and the list shorthand "[T]".
func ParseType(typeStr string) (Schema, error) {
	typeStr = strings.TrimSpace(typeStr)
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elem, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch typeStr {
	case "string", "str":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "map", "dict":
		return Map(), nil
	case "list":
		return List(), nil
	case "any":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// Parse builds a Schema from a loosely structured descriptor, as found in
// spec files:
//
//	"float"                                  type tag
//	{"type": "float", ">": 0}                constrained value
//	{"type": "list", "items": "string"}      list of
//	{"x": "float", "y": {"type": "float"}}   object keyed by field name
func Parse(desc any) (Schema, error) {
	switch d := desc.(type) {
	case nil:
		return nil, fmt.Errorf("schema: empty descriptor")
	case Descriptor:
		return Parse(d.Schema)
	case Schema:
		return d, nil
	case string:
		return ParseType(d)
	}
	m, ok := asStringMap(desc)
	if !ok {
		return nil, fmt.Errorf("schema: unsupported descriptor %T", desc)
	}
	for key := range m {
		if predicateKeys[key] {
			return parseConstrained(m)
		}
	}
	return parseObject(m)
}

func parseConstrained(m map[string]any) (Schema, error) {
	var parts []Schema

	if raw, ok := m["type"]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("schema: \"type\" must be a string, got %T", raw)
		}
		_, hasItems := m["items"]
		_, hasFields := m["fields"]
		// "list" with items and "map" with fields are expressed by those keys alone.
		if !(hasItems && name == "list") && !(hasFields && (name == "map" || name == "dict")) {
			t, err := ParseType(name)
			if err != nil {
				return nil, err
			}
			parts = append(parts, t)
		}
	}
	if raw, ok := m["items"]; ok {
		elem, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		parts = append(parts, Slice(elem))
	}
	if raw, ok := m["fields"]; ok {
		fields, ok := asStringMap(raw)
		if !ok {
			return nil, fmt.Errorf("schema: \"fields\" must be a mapping, got %T", raw)
		}
		obj, err := parseObject(fields)
		if err != nil {
			return nil, err
		}
		parts = append(parts, obj)
	}
	for _, op := range []Op{OpGt, OpGe, OpLt, OpLe} {
		raw, ok := m[string(op)]
		if !ok {
			continue
		}
		bound, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("schema: bound for %q must be a number, got %T", op, raw)
		}
		parts = append(parts, &Comparison{Op: op, Bound: bound})
	}
	if raw, ok := m["one_of"]; ok {
		rv := reflect.ValueOf(raw)
		if !isList(rv) {
			return nil, fmt.Errorf("schema: \"one_of\" must be a list, got %T", raw)
		}
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		parts = append(parts, OneOf(values...))
	}
	_, hasMin := m["min_len"]
	_, hasMax := m["max_len"]
	if hasMin || hasMax {
		l := &Length{Min: 0, Max: -1}
		if hasMin {
			n, err := intArg(m, "min_len")
			if err != nil {
				return nil, err
			}
			l.Min = n
		}
		if hasMax {
			n, err := intArg(m, "max_len")
			if err != nil {
				return nil, err
			}
			l.Max = n
		}
		parts = append(parts, l)
	}
	if raw, ok := m["pattern"]; ok {
		expr, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("schema: \"pattern\" must be a string, got %T", raw)
		}
		p, err := Match(expr)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	for _, engine := range []string{EngineExpr, EngineCEL, EngineJS} {
		raw, ok := m[engine]
		if !ok {
			continue
		}
		source, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("schema: %q must be a string, got %T", engine, raw)
		}
		r, err := NewRule(engine, source)
		if err != nil {
			return nil, err
		}
		parts = append(parts, r)
	}

	for key := range m {
		if !predicateKeys[key] && key != "doc" {
			return nil, fmt.Errorf("schema: unknown descriptor key %q", key)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("schema: descriptor has no constraints")
	}
	return All(parts...), nil
}

func parseObject(m map[string]any) (*Object, error) {
	required := map[string]bool{}
	if raw, ok := m[keyRequiredKeys]; ok {
		rv := reflect.ValueOf(raw)
		if !isList(rv) {
			return nil, fmt.Errorf("schema: %q must be a list, got %T", keyRequiredKeys, raw)
		}
		for i := 0; i < rv.Len(); i++ {
			name, ok := rv.Index(i).Interface().(string)
			if !ok {
				return nil, fmt.Errorf("schema: %q entries must be strings", keyRequiredKeys)
			}
			required[name] = true
		}
	}

	obj := &Object{}
	if raw, ok := m[keyStrict]; ok {
		strict, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("schema: %q must be a bool, got %T", keyStrict, raw)
		}
		obj.Strict = strict
	}

	names := make([]string, 0, len(m))
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			names = append(names, key)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		s, err := Parse(m[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		obj.Fields = append(obj.Fields, Field{Name: name, Schema: s, Required: required[name]})
		delete(required, name)
	}
	for name := range required {
		return nil, fmt.Errorf("schema: required key %q is not declared", name)
	}
	return obj, nil
}

func intArg(m map[string]any, key string) (int, error) {
	f, ok := toFloat(m[key])
	if !ok || f != float64(int(f)) || f < 0 {
		return 0, fmt.Errorf("schema: %q must be a non-negative integer, got %v", key, m[key])
	}
	return int(f), nil
}
