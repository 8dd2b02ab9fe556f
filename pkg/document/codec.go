package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/mframework/pkg/domain"
)

// Format is a byte encoding for documents.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
	}
}

// Marshal encodes d. Key order is preserved and whole floats keep a
// fractional part, so decoding yields the same Go types.
func Marshal(d *Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document. The top-level value must be a mapping.
func Unmarshal(data []byte, f Format) (*Document, error) {
	return Decode(bytes.NewReader(data), f)
}

// Encode writes d to w.
func Encode(w io.Writer, d *Document, f Format) error {
	switch f {
	case FormatJSON:
		data, err := d.MarshalJSON()
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return err
		}
		out.WriteByte('\n')
		_, err = w.Write(out.Bytes())
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q", f)
	}
}

// Decode reads a document from r.
func Decode(r io.Reader, f Format) (*Document, error) {
	d := New()
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		doc, ok := v.(*Document)
		if !ok {
			return nil, &domain.DocumentError{Path: "$", Reason: fmt.Sprintf("expected object, got %T", v)}
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, trailing(err)
		}
		return doc, nil
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(d); err != nil {
			if errors.Is(err, io.EOF) {
				return New(), nil
			}
			return nil, err
		}
		var rest yaml.Node
		if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
			return nil, trailing(err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", f)
	}
}

func trailing(err error) error {
	reason := "unexpected content after the top-level value"
	if err != nil {
		reason += ": " + err.Error()
	}
	return &domain.DocumentError{Path: "$", Reason: reason}
}

// --- JSON ---

// MarshalJSON implements json.Marshaler, keeping key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping key order.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}
	doc, ok := v.(*Document)
	if !ok {
		return &domain.DocumentError{Path: "$", Reason: fmt.Sprintf("expected object, got %T", v)}
	}
	d.m = doc.m
	return nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case *Document:
		buf.WriteByte('{')
		first := true
		for k, e := range v.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case float64:
		return writeJSONFloat(buf, v)
	case float32:
		return writeJSONFloat(buf, float64(v))
	case json.Marshaler:
		data, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		buf.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func writeJSONFloat(buf *bytes.Buffer, f float64) error {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("unsupported float value %v", f)
	}
	buf.WriteString(formatFloat(f))
	return nil
}

// formatFloat renders f so that it reads back as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := New()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				doc.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return doc, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := strconv.Atoi(t.String()); err == nil {
				return i, nil
			}
		}
		return t.Float64()
	default:
		return t, nil
	}
}

// --- YAML ---

// MarshalYAML implements yaml.Marshaler, keeping key order.
func (d *Document) MarshalYAML() (any, error) {
	return yamlNode(d)
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping key order.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeYAMLNode(node)
	if err != nil {
		return err
	}
	doc, ok := v.(*Document)
	if !ok {
		return &domain.DocumentError{Path: "$", Reason: fmt.Sprintf("expected mapping, got %T", v)}
	}
	d.m = doc.m
	return nil
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case nil:
		return scalarNode("!!null", "null"), nil
	case *Document:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, e := range v.All() {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalarNode("!!str", k), child)
		}
		return n, nil
	case string:
		return scalarNode("!!str", v), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(v)), nil
	case float64:
		return yamlFloat(v), nil
	case float32:
		return yamlFloat(float64(v)), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalarNode("!!int", strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalarNode("!!int", strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Slice, reflect.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < rv.Len(); i++ {
			child, err := yamlNode(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			if m, ok := v.(map[string]any); ok {
				return yamlNode(FromMap(m))
			}
		}
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func yamlFloat(f float64) *yaml.Node {
	switch {
	case math.IsInf(f, 1):
		return scalarNode("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalarNode("!!float", "-.inf")
	case math.IsNaN(f):
		return scalarNode("!!float", ".nan")
	}
	return scalarNode("!!float", formatFloat(f))
}

func decodeYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return New(), nil
		}
		return decodeYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias)
	case yaml.MappingNode:
		doc := New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, &domain.DocumentError{Path: fmt.Sprintf("line %d", keyNode.Line), Reason: "mapping keys must be scalars"}
			}
			v, err := decodeYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			doc.Set(keyNode.Value, v)
		}
		return doc, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := decodeYAMLNode(child)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %v", n.Kind)
	}
}
