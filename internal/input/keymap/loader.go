package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrCorrupt is returned when a stored binding map cannot be decoded.
var ErrCorrupt = errors.New("corrupt binding map")

// decodeResult describes what decode had to repair.
type decodeResult struct {
	Bindings BindingMap

	// Upgraded lists action ids whose value was a single label string.
	Upgraded []string

	// Skipped lists action ids whose value was neither a string nor an array.
	Skipped []string
}

// decode parses a stored binding map. Single-string entries from the
// legacy layout become one-element lists.
func decode(raw []byte) (decodeResult, error) {
	var res decodeResult

	if !gjson.ValidBytes(raw) {
		return res, fmt.Errorf("%w: invalid JSON", ErrCorrupt)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return res, fmt.Errorf("%w: want object, got %s", ErrCorrupt, doc.Type)
	}

	res.Bindings = make(BindingMap)
	doc.ForEach(func(k, v gjson.Result) bool {
		id := k.String()
		switch {
		case v.Type == gjson.String:
			res.Bindings[id] = []string{v.String()}
			res.Upgraded = append(res.Upgraded, id)
		case v.IsArray():
			keys := make([]string, 0, len(v.Array()))
			for _, item := range v.Array() {
				if item.Type == gjson.String {
					keys = append(keys, item.String())
				}
			}
			res.Bindings[id] = keys
		default:
			res.Skipped = append(res.Skipped, id)
		}
		return true
	})

	return res, nil
}

// upgradeLegacy rewrites every single-string entry of a stored map into a
// one-element array, leaving all other entries untouched.
func upgradeLegacy(raw []byte) ([]byte, int, error) {
	if !gjson.ValidBytes(raw) {
		return nil, 0, fmt.Errorf("%w: invalid JSON", ErrCorrupt)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, 0, fmt.Errorf("%w: want object, got %s", ErrCorrupt, doc.Type)
	}

	out := append([]byte(nil), raw...)
	upgraded := 0
	var setErr error
	doc.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.String {
			return true
		}
		out, setErr = sjson.SetBytes(out, escapePath(k.String()), []string{v.String()})
		if setErr != nil {
			return false
		}
		upgraded++
		return true
	})
	if setErr != nil {
		return nil, 0, fmt.Errorf("upgrading legacy bindings: %w", setErr)
	}
	return out, upgraded, nil
}

// encode serializes a binding map for storage.
func encode(m BindingMap) ([]byte, error) {
	data, err := json.Marshal(m.Clone())
	if err != nil {
		return nil, fmt.Errorf("encoding bindings: %w", err)
	}
	return data, nil
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

// escapePath quotes the characters gjson/sjson treat as path syntax.
func escapePath(k string) string {
	return pathEscaper.Replace(k)
}
