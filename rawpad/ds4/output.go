package ds4

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/rawpad"
)

// Output report sizes.
const (
	OutputUSBSize       = 32
	OutputBluetoothSize = 78
)

const (
	flagRumble uint8 = 0x01
	flagLight  uint8 = 0x02

	btHeader = 0xA2
	// HID report rate field of the Bluetooth output report, 0xC0 | period.
	btRate = 0xC0 | 4
)

// OutputReport builds the rumble / light bar report for t. The light bar is
// only touched when fb carries a colour.
func OutputReport(t rawpad.Transport, fb dualshock4.OutputState) []byte {
	flags := flagRumble
	if fb.HasColor {
		flags |= flagLight
	}

	if t != rawpad.Bluetooth {
		b := make([]byte, OutputUSBSize)
		b[0] = OutputUSB
		b[1] = flags
		b[4] = fb.Right
		b[5] = fb.Left
		b[6], b[7], b[8] = fb.R, fb.G, fb.B
		return b
	}

	b := make([]byte, OutputBluetoothSize)
	b[0] = OutputBluetooth
	b[1] = btRate
	b[3] = flags
	b[6] = fb.Right
	b[7] = fb.Left
	b[8], b[9], b[10] = fb.R, fb.G, fb.B
	n := OutputBluetoothSize - 4
	binary.LittleEndian.PutUint32(b[n:], bluetoothCRC(b[:n]))
	return b
}

// bluetoothCRC is the CRC-32 the pad expects over the transaction header and
// the report.
func bluetoothCRC(report []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, []byte{btHeader})
	return crc32.Update(crc, crc32.IEEETable, report)
}
