package launcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// AppsKey is the mode field listing the applications to launch
const AppsKey = "apps"

// Format identifies the syntax of a mode file
type Format int

const (
	// FormatJSON - the default mode file syntax
	FormatJSON Format = iota
	// FormatYAML - accepted for .yaml and .yml files
	FormatYAML
	// FormatTOML - accepted for .toml files
	FormatTOML
)

// String returns the string representation of a Format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatForPath picks the syntax from the file extension
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Document is a parsed mode file. It is read-only once parsed.
type Document struct {
	root interface{}
}

// Mode is one named section of a Document
type Mode struct {
	Name   string
	fields map[string]interface{}
}

// AppList is the apps array of a mode with non-string entries removed
type AppList struct {
	// Paths are the string entries in declaration order
	Paths []string

	// Declared is the length of the array as written
	Declared int

	// Skipped counts entries that were not strings
	Skipped int
}

// ParseDocument parses a mode file. path is used for error reporting and to
// choose the syntax. Malformed input yields CONFIG_PARSE_FAILED
// with the byte offset of the first bad token when the parser reports one.
func ParseDocument(path string, data []byte) (*Document, error) {
	var root interface{}

	switch FormatForPath(path) {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, ErrConfigParseFailed(path, -1, err)
		}
		if root == nil {
			return nil, ErrConfigParseFailed(path, -1, errors.New("empty document"))
		}
	case FormatTOML:
		table := make(map[string]interface{})
		if _, err := toml.Decode(string(data), &table); err != nil {
			return nil, ErrConfigParseFailed(path, tomlOffset(err), err)
		}
		root = table
	default:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, ErrConfigParseFailed(path, syntaxOffset(err), err)
		}
	}

	return &Document{root: root}, nil
}

// syntaxOffset extracts the byte offset from a JSON syntax error, or -1
func syntaxOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	return -1
}

// tomlOffset extracts the byte offset from a TOML parse error, or -1
func tomlOffset(err error) int64 {
	var parseErr toml.ParseError
	if errors.As(err, &parseErr) {
		return int64(parseErr.Position.Start)
	}
	return -1
}

// LookupMode finds a top-level mode by exact, case-sensitive name. A key
// whose value is not an object is treated as absent.
func (d *Document) LookupMode(name string) (*Mode, bool) {
	top, ok := asObject(d.root)
	if !ok {
		return nil, false
	}

	fields, ok := asObject(top[name])
	if !ok {
		return nil, false
	}

	return &Mode{Name: name, fields: fields}, true
}

// Modes returns the names of all top-level object entries, sorted
func (d *Document) Modes() []string {
	top, ok := asObject(d.root)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(top))
	for name, value := range top {
		if _, ok := asObject(value); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}

// Apps returns the mode's application paths. It reports false when the apps
// key is missing or is not an array; non-string elements are skipped one by
// one without rejecting the rest of the list.
func (m *Mode) Apps() (AppList, bool) {
	raw, exists := m.fields[AppsKey]
	if !exists {
		return AppList{}, false
	}

	items, ok := raw.([]interface{})
	if !ok {
		return AppList{}, false
	}

	list := AppList{
		Paths:    make([]string, 0, len(items)),
		Declared: len(items),
	}
	for _, item := range items {
		path, ok := item.(string)
		if !ok {
			list.Skipped++
			continue
		}
		list.Paths = append(list.Paths, path)
	}

	return list, true
}

// asObject accepts both map shapes a decoder may produce
func asObject(v interface{}) (map[string]interface{}, bool) {
	switch obj := v.(type) {
	case map[string]interface{}:
		return obj, true
	case map[interface{}]interface{}:
		converted := make(map[string]interface{}, len(obj))
		for k, val := range obj {
			converted[fmt.Sprint(k)] = val
		}
		return converted, true
	default:
		return nil, false
	}
}
