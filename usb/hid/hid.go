// Package hid reads and writes HID report descriptors.
//
// A HID report descriptor is a byte-coded DSL of short and long items. Parse
// turns descriptor bytes into items; the item structs in this package encode
// the other way, which is how tests build descriptors of known devices.
package hid

import (
	"errors"
	"fmt"
)

// Data is a descriptor byte stream or an item payload.
type Data []uint8

// ItemType is the HID short item "type" field.
// HID 1.11: Main=0, Global=1, Local=2, Reserved=3.
type ItemType uint8

const (
	ItemTypeMain     ItemType = 0
	ItemTypeGlobal   ItemType = 1
	ItemTypeLocal    ItemType = 2
	ItemTypeReserved ItemType = 3
)

// Main item tags.
const (
	tagInput         uint8 = 0x8
	tagCollection    uint8 = 0xA
	tagEndCollection uint8 = 0xC
)

// Global and local tags used while parsing.
const (
	tagUsagePage uint8 = 0x0
	tagUsage     uint8 = 0x0
)

const longItemPrefix = 0xFE

// ErrTruncated is returned for a descriptor that ends inside an item.
var ErrTruncated = errors.New("hid: truncated descriptor")

// ErrNoApplication is returned when a descriptor has no top-level
// application collection.
var ErrNoApplication = errors.New("hid: no application collection")

// Item is one node of a descriptor that can be encoded.
type Item interface {
	item() (ItemType, uint8, Data)
}

// Report is a complete HID report descriptor (type 0x22).
type Report struct {
	Items []Item
}

// Bytes encodes the report descriptor.
func (r Report) Bytes() (Data, error) {
	e := &encoder{}
	if err := e.items(r.Items); err != nil {
		return nil, err
	}
	return Data(e.buf), nil
}

// ShortItem is one decoded item. Long items are reported with Long set and
// their tag and payload.
type ShortItem struct {
	Type ItemType
	Tag  uint8
	Data Data
	Long bool
}

// Uint returns the payload as an unsigned little-endian value.
func (s ShortItem) Uint() uint32 {
	var v uint32
	for i, b := range s.Data {
		v |= uint32(b) << (8 * i)
	}
	return v
}

// Parse splits a descriptor into its items.
func Parse(desc Data) ([]ShortItem, error) {
	var items []ShortItem
	for i := 0; i < len(desc); {
		h := desc[i]
		if h == longItemPrefix {
			if i+3 > len(desc) {
				return nil, ErrTruncated
			}
			n := int(desc[i+1])
			end := i + 3 + n
			if end > len(desc) {
				return nil, ErrTruncated
			}
			items = append(items, ShortItem{Tag: desc[i+2], Data: desc[i+3 : end], Long: true})
			i = end
			continue
		}
		n := int(h & 0x3)
		if n == 3 {
			n = 4
		}
		end := i + 1 + n
		if end > len(desc) {
			return nil, ErrTruncated
		}
		items = append(items, ShortItem{
			Type: ItemType(h >> 2 & 0x3),
			Tag:  h >> 4,
			Data: desc[i+1 : end],
		})
		i = end
	}
	return items, nil
}

// ParseApplication returns the usage page and usage of the first top-level
// application collection.
func ParseApplication(desc Data) (page, usage uint16, err error) {
	items, err := Parse(desc)
	if err != nil {
		return 0, 0, err
	}
	var (
		curPage uint16
		local   []uint32
		depth   int
	)
	for _, it := range items {
		if it.Long {
			continue
		}
		switch {
		case it.Type == ItemTypeGlobal && it.Tag == tagUsagePage:
			curPage = uint16(it.Uint())
		case it.Type == ItemTypeLocal && it.Tag == tagUsage:
			local = append(local, it.Uint())
		case it.Type == ItemTypeMain && it.Tag == tagCollection:
			if depth == 0 && CollectionKind(it.Uint()) == CollectionApplication && len(local) > 0 {
				u := local[len(local)-1]
				// a 4-byte usage carries its own page
				if u > 0xFFFF {
					return uint16(u >> 16), uint16(u), nil
				}
				return curPage, uint16(u), nil
			}
			depth++
			local = local[:0]
		case it.Type == ItemTypeMain && it.Tag == tagEndCollection:
			depth = max(depth-1, 0)
			local = local[:0]
		case it.Type == ItemTypeMain:
			local = local[:0]
		}
	}
	return 0, 0, ErrNoApplication
}

// IsGamepad reports whether desc describes a joystick, game pad or
// multi-axis controller.
func IsGamepad(desc Data) bool {
	page, usage, err := ParseApplication(desc)
	if err != nil || page != UsagePageGenericDesktop {
		return false
	}
	switch usage {
	case UsageJoystick, UsageGamePad, UsageMultiAxis:
		return true
	}
	return false
}

type encoder struct {
	buf []byte
}

func (e *encoder) items(items []Item) error {
	for _, it := range items {
		if it == nil {
			return fmt.Errorf("hid: nil item")
		}
		typ, tag, data := it.item()
		if err := e.short(tag, typ, data); err != nil {
			return err
		}
		if c, ok := it.(Collection); ok {
			if err := e.items(c.Items); err != nil {
				return err
			}
			if err := e.short(tagEndCollection, ItemTypeMain, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *encoder) short(tag uint8, typ ItemType, data Data) error {
	var sizeCode uint8
	switch len(data) {
	case 0:
		sizeCode = 0
	case 1:
		sizeCode = 1
	case 2:
		sizeCode = 2
	case 4:
		sizeCode = 3
	default:
		return fmt.Errorf("hid: short item data must be 0/1/2/4 bytes, got %d", len(data))
	}
	e.buf = append(e.buf, tag<<4|uint8(typ)<<2|sizeCode)
	e.buf = append(e.buf, data...)
	return nil
}

func dataU32(v uint32) Data {
	if v <= 0xFF {
		return Data{uint8(v)}
	}
	if v <= 0xFFFF {
		return Data{uint8(v), uint8(v >> 8)}
	}
	return Data{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

func dataI32(v int32) Data {
	if v >= -128 && v <= 127 {
		return Data{uint8(v)}
	}
	if v >= -32768 && v <= 32767 {
		uv := uint16(int16(v))
		return Data{uint8(uv), uint8(uv >> 8)}
	}
	uv := uint32(v)
	return Data{uint8(uv), uint8(uv >> 8), uint8(uv >> 16), uint8(uv >> 24)}
}
