package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/folio/internal/content"
)

// Descriptor field names. A document with an "entries" object is a
// descriptor; any other document is a flat key -> body map.
const (
	fieldNamespace = "namespace"
	fieldEntries   = "entries"
)

// ParseFile reads one file and turns it into a Module.
func ParseFile(f File) (content.Module, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return content.Module{}, err
	}
	return Parse(f.RelPath, f.Kind, data)
}

// Parse turns raw file data into a Module. rel is the slash-separated path
// relative to the content root; it becomes the SourceRef and, unless the
// document names a namespace, the file's directory becomes the namespace.
func Parse(rel string, kind Kind, data []byte) (content.Module, error) {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}

	if kind == KindHTML {
		base := path.Base(rel)
		key := strings.TrimSuffix(base, path.Ext(base))
		return content.NewModule(dir, rel, map[string]string{key: string(data)}), nil
	}

	var doc map[string]any
	var err error
	switch kind {
	case KindJSON:
		doc, err = decodeJSON(jsonc.ToJSON(data))
	case KindYAML:
		doc, err = decodeYAML(data)
	default:
		return content.Module{}, fmt.Errorf("unsupported kind %q", kind)
	}
	if err != nil {
		return content.Module{}, err
	}

	ns, entries, err := fromDocument(doc)
	if err != nil {
		return content.Module{}, err
	}
	if ns == nil {
		ns = &dir
	}
	return content.NewModule(*ns, rel, entries), nil
}

// fromDocument recognises the flat and descriptor shapes. The returned
// namespace is nil when the document does not name one.
func fromDocument(doc map[string]any) (*string, map[string]string, error) {
	raw, isDescriptor := doc[fieldEntries].(map[string]any)
	if !isDescriptor {
		entries, err := stringMap(doc)
		return nil, entries, err
	}

	for field := range doc {
		if field != fieldNamespace && field != fieldEntries {
			return nil, nil, fmt.Errorf("descriptor: unknown field %q", field)
		}
	}
	var ns *string
	if v, ok := doc[fieldNamespace]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, nil, fmt.Errorf("descriptor: %q must be a string, got %s", fieldNamespace, typeName(v))
		}
		s = strings.Trim(s, content.Separator)
		ns = &s
	}
	entries, err := stringMap(raw)
	return ns, entries, err
}

func stringMap(m map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("key %q: body must be a string, got %s", k, typeName(v))
		}
		out[k] = s
	}
	return out, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case bool:
		return "boolean"
	case string:
		return "string"
	default:
		return "number"
	}
}

func decodeYAML(data []byte) (map[string]any, error) {
	// yaml.v3 rejects duplicate mapping keys on its own.
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document is empty")
	}
	return doc, nil
}

// decodeJSON decodes a JSON object, rejecting duplicate keys at any depth.
// encoding/json would keep the last one silently.
func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %s", typeName(v))
	}
	return doc, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, err
	}
	switch tok {
	case json.Delim('{'):
		obj := make(map[string]any)
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key := kt.(string)
			if _, dup := obj[key]; dup {
				return nil, fmt.Errorf("duplicate key %q", key)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case json.Delim('['):
		var arr []any
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return tok, nil
	}
}
