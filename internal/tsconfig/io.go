package tsconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// EOL is the host line ending used when files are written.
var EOL = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// utf8BOM is skipped at the start of a file, as the compiler does.
var utf8BOM = []byte("\xEF\xBB\xBF")

// cleanJSON strips a leading byte order mark, then JSONC comments and
// trailing commas. It returns how many leading bytes were dropped.
func cleanJSON(data []byte) ([]byte, int) {
	skipped := 0
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		skipped = len(utf8BOM)
	}
	// Comments become whitespace, so syntax error offsets still point into data.
	return jsonc.ToJSON(data), skipped
}

// Parse decodes JSONC content into a Tree. Blank content is an empty tree.
// A leading UTF-8 byte order mark is ignored.
func Parse(data []byte, path string) (Tree, error) {
	clean, skipped := cleanJSON(data)
	if len(bytes.TrimSpace(clean)) == 0 {
		return Tree{}, nil
	}

	var raw any
	if err := json.Unmarshal(clean, &raw); err != nil {
		offset := -1
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			offset = int(syntaxErr.Offset) + skipped
		}
		return nil, &Error{Kind: KindParse, Path: path, Message: err.Error(), Offset: offset, Err: err}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &Error{
			Kind:    KindParse,
			Path:    path,
			Message: fmt.Sprintf("top-level value must be an object, got %s", typeName(raw)),
			Offset:  -1,
		}
	}
	return Normalize(obj).(Tree), nil
}

// Load reads and parses the file at path.
func Load(fs afero.Fs, path string) (Tree, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Path: path, Offset: -1, Err: err}
	}
	return Parse(data, path)
}

// Marshal renders t with 2-space indentation, host line endings and a
// trailing line ending. Keys are written in sorted order.
func Marshal(t Tree) ([]byte, error) {
	return MarshalLayout(t, nil)
}

// MarshalLayout is Marshal that writes the keys of every object in the order
// recorded by layout. Keys the layout does not know follow in sorted order.
func MarshalLayout(t Tree, layout Layout) ([]byte, error) {
	if t == nil {
		t = Tree{}
	}
	var compact bytes.Buffer
	if err := encodeValue(&compact, t, layout, ""); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	out := buf.Bytes()
	if EOL != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(EOL))
	}
	return append(out, EOL...), nil
}

// Write marshals t and replaces the file at path. The content goes to a
// temporary sibling first and is renamed into place.
func Write(fs afero.Fs, path string, t Tree) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	return WriteFile(fs, path, data)
}

// WriteFile writes data to path through a temporary file and a rename.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := afero.WriteFile(fs, tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath) // Clean up temp file
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
