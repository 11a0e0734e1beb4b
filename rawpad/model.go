package rawpad

// Model is a controller family with a dedicated raw decoder.
type Model uint8

const (
	ModelUnknown Model = iota
	ModelDualShock4
	ModelSwitchPro
)

const (
	vendorSony     uint16 = 0x054C
	vendorNintendo uint16 = 0x057E
)

var models = map[[2]uint16]Model{
	{vendorSony, 0x05C4}:     ModelDualShock4,
	{vendorSony, 0x09CC}:     ModelDualShock4,
	{vendorNintendo, 0x2009}: ModelSwitchPro,
}

// Identify returns the model for a USB vendor / product pair.
func Identify(vendor, product uint16) Model {
	return models[[2]uint16{vendor, product}]
}

func (m Model) String() string {
	switch m {
	case ModelDualShock4:
		return "dualshock4"
	case ModelSwitchPro:
		return "switchpro"
	}
	return "unknown"
}
