package hid

// Usage pages.
const (
	UsagePageGenericDesktop uint16 = 0x01
	UsagePageButton         uint16 = 0x09
	UsagePageVendor         uint16 = 0xFF00
)

// Generic Desktop application usages.
const (
	UsageMouse     uint16 = 0x02
	UsageJoystick  uint16 = 0x04
	UsageGamePad   uint16 = 0x05
	UsageKeyboard  uint16 = 0x06
	UsageMultiAxis uint16 = 0x08
)

// Generic Desktop control usages.
const (
	UsageX   uint16 = 0x30
	UsageY   uint16 = 0x31
	UsageZ   uint16 = 0x32
	UsageRx  uint16 = 0x33
	UsageRy  uint16 = 0x34
	UsageRz  uint16 = 0x35
	UsageHat uint16 = 0x39
)

type CollectionKind uint8

const (
	CollectionPhysical    CollectionKind = 0x00
	CollectionApplication CollectionKind = 0x01
	CollectionLogical     CollectionKind = 0x02
)

// MainFlags are the Input item bits.
type MainFlags uint8

const (
	MainData  MainFlags = 0x00
	MainConst MainFlags = 0x01
	MainVar   MainFlags = 0x02
	MainAbs   MainFlags = 0x00
	MainNull  MainFlags = 0x40
)
