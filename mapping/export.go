package mapping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/Alia5/padmap/input"
)

// Entry is the human-editable form of one table row.
type Entry struct {
	Input string `json:"input" yaml:"input" toml:"input"`
	Kind  string `json:"kind" yaml:"kind" toml:"kind"`
	Index int32  `json:"index" yaml:"index" toml:"index"`
	Value int32  `json:"value" yaml:"value" toml:"value"`
	Full  bool   `json:"fullRange,omitempty" yaml:"fullRange,omitempty" toml:"fullRange,omitempty"`
}

// Document is the exported form of a profile.
type Document struct {
	Device  string  `json:"device" yaml:"device" toml:"device"`
	Entries []Entry `json:"entries" yaml:"entries" toml:"entries"`
}

// NewDocument converts the mapped entries of t.
func NewDocument(device string, t *Table) Document {
	doc := Document{Device: device}
	for i, sig := range t.forward {
		if !sig.IsSet() {
			continue
		}
		doc.Entries = append(doc.Entries, Entry{
			Input: input.Input(i).String(),
			Kind:  sig.Kind.String(),
			Index: sig.Index,
			Value: sig.Value,
			Full:  sig.Range == input.RangeFull,
		})
	}
	return doc
}

// Table converts the document back into a table.
func (d Document) Table() (*Table, error) {
	t := NewTable()
	for _, e := range d.Entries {
		in, err := input.Parse(e.Input)
		if err != nil {
			return nil, err
		}
		kind, err := parseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Input, err)
		}
		sig := input.Signature{Kind: kind, Index: e.Index, Value: e.Value}
		if e.Full {
			sig.Range = input.RangeFull
		}
		t.forward[in] = sig
	}
	t.rebuild()
	return t, nil
}

func parseKind(s string) (input.Kind, error) {
	for k := input.Unset; k.Valid(); k++ {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return input.Unset, fmt.Errorf("unknown kind: %q", s)
}

// Export encodes a profile as json, yaml or toml.
func Export(device string, t *Table, format string) ([]byte, error) {
	doc := NewDocument(device, t)
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(doc)
	case "toml":
		return toml.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported export format: %s", format)
}

// Import decodes a profile previously produced by Export in json, yaml or
// toml.
func Import(data []byte, format string) (string, *Table, error) {
	var doc Document
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &doc)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return "", nil, fmt.Errorf("unsupported import format: %s", format)
	}
	if err != nil {
		return "", nil, err
	}
	t, err := doc.Table()
	if err != nil {
		return "", nil, err
	}
	return doc.Device, t, nil
}

// Render formats every entry of t as an aligned two-column listing.
func Render(t *Table) string {
	width := 0
	for _, in := range input.All() {
		if w := runewidth.StringWidth(in.Format()); w > width {
			width = w
		}
	}
	var b strings.Builder
	for _, in := range CaptureOrder() {
		b.WriteString(runewidth.FillRight(in.Format(), width))
		b.WriteString("  ")
		b.WriteString(t.Get(in).String())
		b.WriteString("\n")
	}
	return b.String()
}
