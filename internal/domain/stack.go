package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// LatestVersion is the version sentinel meaning "unspecified, use the latest".
const LatestVersion = "latest"

// StackItem is one technology with an optional version.
type StackItem struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// String renders the item the way it is embedded in prompts.
func (i StackItem) String() string {
	if i.Version == "" || i.Version == LatestVersion {
		return i.Name + " (latest)"
	}
	return i.Name + " " + i.Version
}

// Selection is an ordered set of stack items, unique by name.
type Selection []StackItem

// NewSelection trims and de-duplicates items by name. The first occurrence
// keeps its position; a later duplicate with a concrete version replaces a
// "latest" one. Blank names are dropped and blank versions become "latest".
func NewSelection(items []StackItem) Selection {
	sel := make(Selection, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		version := strings.TrimSpace(it.Version)
		if version == "" {
			version = LatestVersion
		}
		if i, ok := index[name]; ok {
			if sel[i].Version == LatestVersion && version != LatestVersion {
				sel[i].Version = version
			}
			continue
		}
		index[name] = len(sel)
		sel = append(sel, StackItem{Name: name, Version: version})
	}
	return sel
}

// Names returns the item names in order.
func (s Selection) Names() []string {
	names := make([]string, len(s))
	for i, it := range s {
		names[i] = it.Name
	}
	return names
}

// Describe renders the selection as prompt text.
func (s Selection) Describe() string {
	parts := make([]string, len(s))
	for i, it := range s {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}

// InputKind tags the two shapes a stack description can take.
type InputKind int

const (
	// InputFreeText is a natural-language description that must be validated.
	InputFreeText InputKind = iota
	// InputCatalog is a selection of catalog technologies; it skips validation.
	InputCatalog
)

// StackInput is the normalized stack description. Exactly one of Text and
// Selection is meaningful, according to Kind.
type StackInput struct {
	Kind      InputKind
	Text      string
	Selection Selection
}

// FreeText builds a free-text input.
func FreeText(text string) StackInput {
	return StackInput{Kind: InputFreeText, Text: strings.TrimSpace(text)}
}

// FromItems builds an input from structured items. When every item names a
// catalog technology with a known version the result is a catalog selection;
// otherwise the items are joined into free text so they still get validated.
func FromItems(items []StackItem) StackInput {
	sel := NewSelection(items)
	if len(sel) == 0 {
		return StackInput{Kind: InputCatalog}
	}
	for _, it := range sel {
		t, ok := LookupTech(it.Name)
		if !ok || !t.HasVersion(it.Version) {
			return FreeText(sel.Describe())
		}
	}
	return StackInput{Kind: InputCatalog, Selection: sel}
}

// FromNames is FromItems for bare names.
func FromNames(names []string) StackInput {
	items := make([]StackItem, len(names))
	for i, n := range names {
		items[i] = StackItem{Name: n}
	}
	return FromItems(items)
}

// Empty reports whether the input carries no stack at all.
func (in StackInput) Empty() bool {
	if in.Kind == InputCatalog {
		return len(in.Selection) == 0
	}
	return strings.TrimSpace(in.Text) == ""
}

// NeedsValidation reports whether the oracle must classify the input first.
func (in StackInput) NeedsValidation() bool {
	return in.Kind == InputFreeText
}

// Describe returns the text sent to the oracle.
func (in StackInput) Describe() string {
	if in.Kind == InputCatalog {
		return in.Selection.Describe()
	}
	return in.Text
}

// StackRequest asks for an installation script.
type StackRequest struct {
	Input StackInput
	OS    OS
}

// Validate rejects requests that must never reach the oracle.
func (r StackRequest) Validate() error {
	if r.Input.Empty() {
		return fmt.Errorf("%w: stack is required", ErrInvalidInput)
	}
	if !r.OS.Valid() {
		return fmt.Errorf("%w: unsupported os %q", ErrInvalidInput, r.OS)
	}
	return nil
}

// RawStack accepts every wire shape of the "stack" field: a string, a list of
// strings, or a list of {name, version} objects (mixed lists are allowed).
type RawStack struct {
	Input StackInput
	set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawStack) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	r.set = true

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		r.Input = FreeText(text)
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("%w: stack must be a string or a list", ErrInvalidInput)
	}
	items := make([]StackItem, 0, len(elems))
	for _, e := range elems {
		var name string
		if err := json.Unmarshal(e, &name); err == nil {
			items = append(items, StackItem{Name: name})
			continue
		}
		var item StackItem
		if err := json.Unmarshal(e, &item); err != nil {
			return fmt.Errorf("%w: invalid stack item", ErrInvalidInput)
		}
		items = append(items, item)
	}
	r.Input = FromItems(items)
	return nil
}

// Present reports whether the field was supplied with a non-null value.
func (r RawStack) Present() bool {
	return r.set
}

// GenerateScriptRequest is the request body of the generate endpoint.
type GenerateScriptRequest struct {
	Stack RawStack `json:"stack"`
	OS    string   `json:"os"`
}
