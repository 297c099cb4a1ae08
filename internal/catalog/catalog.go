package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Item is a single selectable entry. Value is the identity; uniqueness
// across a catalog is assumed by consumers, not enforced here.
type Item[V comparable] struct {
	Value       V      `yaml:"value" json:"value" toml:"value"`
	DisplayText string `yaml:"displayText" json:"displayText" toml:"displayText"`
}

// Format identifies a catalog file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

// String returns the conventional extension-less name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	default:
		return "yaml"
	}
}

var (
	// ErrNotSequence is returned when the catalog document is not a list
	// of items (YAML/JSON top level, TOML "items" array of tables).
	ErrNotSequence = errors.New("catalog is not a sequence of items")

	// ErrMalformedItem is returned for entries that are not
	// {value, displayText} objects or carry an unusable value.
	ErrMalformedItem = errors.New("malformed catalog item")
)

// FormatFromPath picks the format from the file extension. Unknown
// extensions are treated as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Parse decodes catalog bytes. Values are normalized to their textual
// form so that numeric ids and string ids compare the same way.
func Parse(data []byte, format Format) ([]Item[string], error) {
	var (
		entries []any
		err     error
	)
	switch format {
	case FormatJSON:
		entries, err = decodeJSON(data)
	case FormatTOML:
		entries, err = decodeTOML(data)
	default:
		entries, err = decodeYAML(data)
	}
	if err != nil {
		return nil, err
	}

	items := make([]Item[string], 0, len(entries))
	for i, entry := range entries {
		item, err := itemFromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Load reads and parses the catalog file at path.
func Load(path string) ([]Item[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	items, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return items, nil
}

// Marshal encodes items in the given format.
func Marshal(items []Item[string], format Format) ([]byte, error) {
	if items == nil {
		items = []Item[string]{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(tomlDocument{Items: items})
	default:
		return yaml.Marshal(items)
	}
}

// Save writes items to path, choosing the format from the extension.
func Save(path string, items []Item[string]) error {
	data, err := Marshal(items, FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating catalog directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// Duplicates returns every value that occurs more than once, in order of
// first occurrence.
func Duplicates[V comparable](items []Item[V]) []V {
	seen := make(map[V]int, len(items))
	var dups []V
	for _, it := range items {
		seen[it.Value]++
		if seen[it.Value] == 2 {
			dups = append(dups, it.Value)
		}
	}
	return dups
}

// Lookup returns the first item with the given value.
func Lookup[V comparable](items []Item[V], value V) (Item[V], bool) {
	for _, it := range items {
		if it.Value == value {
			return it, true
		}
	}
	return Item[V]{}, false
}

type tomlDocument struct {
	Items []Item[string] `toml:"items"`
}

func decodeYAML(data []byte) ([]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if doc == nil {
		return []any{}, nil
	}
	entries, ok := doc.([]any)
	if !ok {
		return nil, ErrNotSequence
	}
	return entries, nil
}

func decodeJSON(data []byte) ([]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	entries, ok := doc.([]any)
	if !ok {
		return nil, ErrNotSequence
	}
	return entries, nil
}

func decodeTOML(data []byte) ([]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding toml: %w", err)
	}
	raw, ok := doc["items"]
	if !ok {
		if len(doc) == 0 {
			return []any{}, nil
		}
		return nil, ErrNotSequence
	}
	switch entries := raw.(type) {
	case []any:
		return entries, nil
	case []map[string]any:
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = e
		}
		return out, nil
	default:
		return nil, ErrNotSequence
	}
}

func itemFromEntry(entry any) (Item[string], error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return Item[string]{}, fmt.Errorf("%w: expected an object with value and displayText", ErrMalformedItem)
	}
	value, err := valueText(fields["value"])
	if err != nil {
		return Item[string]{}, err
	}
	display, ok := fields["displayText"].(string)
	if !ok {
		return Item[string]{}, fmt.Errorf("%w: displayText must be a string", ErrMalformedItem)
	}
	return Item[string]{Value: value, DisplayText: display}, nil
}

// valueText renders a scalar value in a stable textual form.
func valueText(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("%w: value is required", ErrMalformedItem)
	default:
		return "", fmt.Errorf("%w: value must be a scalar, got %T", ErrMalformedItem, v)
	}
}
