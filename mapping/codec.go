package mapping

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/Alia5/padmap/input"
)

// Format identifies which tuple layout a map file was written with.
type Format uint8

const (
	FormatCurrent Format = iota
	// FormatLegacy files predate RangeMode. They load with every RangeMode
	// absent and the caller should ask the operator to re-map.
	FormatLegacy
)

func (f Format) String() string {
	if f == FormatLegacy {
		return "legacy"
	}
	return "current"
}

var (
	// ErrCorrupt is returned for map data that is neither format. Callers
	// delete the file and capture again; no partial repair is attempted.
	ErrCorrupt = errors.New("corrupt map file")
	// ErrNotFound is returned when no profile exists for a device.
	ErrNotFound = errors.New("no map file for device")
)

// tuple is one entry of the on-disk table. Layout (little-endian, no header):
//
//	Name:  4 bytes (u32, canonical input)
//	Kind:  4 bytes (u32)
//	Index: 4 bytes (i32)
//	Value: 4 bytes (i32)
//	Range: 4 bytes (u32, absent in the legacy layout)
type tuple struct {
	Name  uint32
	Kind  uint32
	Index int32
	Value int32
	Range uint32
}

type legacyTuple struct {
	Name  uint32
	Kind  uint32
	Index int32
	Value int32
}

var (
	TupleSize       = binary.Size(tuple{})
	LegacyTupleSize = binary.Size(legacyTuple{})
)

// MarshalBinary encodes every entry of the table, one tuple per canonical
// input.
func (t *Table) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(TupleSize * int(input.Count))
	for i, sig := range t.forward {
		tp := tuple{
			Name:  uint32(i),
			Kind:  uint32(sig.Kind),
			Index: sig.Index,
			Value: sig.Value,
			Range: uint32(sig.Range),
		}
		if err := binary.Write(&buf, binary.LittleEndian, tp); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes data written in the current format.
func (t *Table) UnmarshalBinary(data []byte) error {
	dec, format, err := Decode(data)
	if err != nil {
		return err
	}
	if format != FormatCurrent {
		return fmt.Errorf("%w: legacy layout", ErrCorrupt)
	}
	*t = *dec
	return nil
}

// Decode parses a map file. A length divisible by the legacy tuple size but
// not by the current one is read as legacy; otherwise the current layout is
// tried. A length divisible by both is read as legacy only when that yields
// exactly one tuple per canonical input. Entries not present in the data stay
// Unset.
func Decode(data []byte) (*Table, Format, error) {
	if len(data) == 0 {
		return nil, FormatCurrent, fmt.Errorf("%w: empty", ErrCorrupt)
	}
	format := FormatCurrent
	size := TupleSize
	switch {
	case len(data)%LegacyTupleSize == 0 && len(data)%TupleSize != 0,
		len(data) == LegacyTupleSize*int(input.Count):
		format = FormatLegacy
		size = LegacyTupleSize
	case len(data)%TupleSize != 0:
		return nil, format, fmt.Errorf("%w: length %d", ErrCorrupt, len(data))
	}

	t := &Table{}
	r := bytes.NewReader(data)
	for n := len(data) / size; n > 0; n-- {
		var tp tuple
		if format == FormatLegacy {
			var lt legacyTuple
			if err := binary.Read(r, binary.LittleEndian, &lt); err != nil {
				return nil, format, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			tp = tuple{Name: lt.Name, Kind: lt.Kind, Index: lt.Index, Value: lt.Value}
		} else if err := binary.Read(r, binary.LittleEndian, &tp); err != nil {
			return nil, format, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		in := input.Input(tp.Name)
		kind := input.Kind(tp.Kind)
		if tp.Name >= uint32(input.Count) || tp.Kind > 0xff || !kind.Valid() || tp.Range > uint32(input.RangeFull) {
			return nil, format, fmt.Errorf("%w: bad entry %+v", ErrCorrupt, tp)
		}
		t.forward[in] = input.Signature{
			Kind:  kind,
			Index: tp.Index,
			Value: tp.Value,
			Range: input.RangeMode(tp.Range),
		}
	}
	t.rebuild()
	return t, format, nil
}

// Load reads and decodes the map file at path. A missing file yields
// ErrNotFound.
func Load(path string) (*Table, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, FormatCurrent, ErrNotFound
		}
		return nil, FormatCurrent, err
	}
	return Decode(data)
}

// Save writes t to path in the current format.
func Save(path string, t *Table) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
