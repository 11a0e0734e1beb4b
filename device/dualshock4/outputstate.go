package dualshock4

import "io"

// OutputState is the feedback sent back toward the physical pad: two motor
// intensities and, optionally, a light bar colour.
// Wire format: 2 bytes (Left, Right) or 5 bytes (Left, Right, R, G, B).
type OutputState struct {
	// Left is the strong (low frequency) motor, Right the weak one.
	Left, Right uint8
	R, G, B     uint8
	HasColor    bool
}

// MarshalBinary encodes OutputState, adding the colour only when set.
func (o *OutputState) MarshalBinary() ([]byte, error) {
	if o.HasColor {
		return []byte{o.Left, o.Right, o.R, o.G, o.B}, nil
	}
	return []byte{o.Left, o.Right}, nil
}

// UnmarshalBinary decodes 2 or 5 bytes.
func (o *OutputState) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return io.ErrUnexpectedEOF
	}
	o.Left, o.Right = data[0], data[1]
	o.HasColor = len(data) >= 5
	if o.HasColor {
		o.R, o.G, o.B = data[2], data[3], data[4]
	}
	return nil
}
