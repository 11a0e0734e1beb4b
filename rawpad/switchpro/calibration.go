package switchpro

import (
	"bytes"
	"context"
	"errors"
	"math"
)

// SPI flash locations of the 6-axis calibration.
const (
	FactoryIMUAddr uint32 = 0x6020
	UserIMUAddr    uint32 = 0x8028
	UserMarkerAddr uint32 = 0x8026
	IMUCalSize     uint8  = 24
)

var userMarker = []byte{0xB2, 0xA1}

// DS4 sensor units.
const (
	AccelPerG   = 8192
	GyroPerDPS  = 16
	accelRangeG = 4
	gyroRange   = 936
)

// Default calibration used when the controller cannot be read.
const (
	DefaultAccelSens int16 = 16384
	DefaultGyroSens  int16 = 13371
)

// Source tells where a Calibration came from.
type Source uint8

const (
	SourceDefault Source = iota
	SourceFactory
	SourceUser
)

func (s Source) String() string {
	switch s {
	case SourceFactory:
		return "factory"
	case SourceUser:
		return "user"
	}
	return "default"
}

// Calibration holds per-axis origin and sensitivity of both IMU sensors.
type Calibration struct {
	AccelOrigin, AccelSens [3]int16
	GyroOrigin, GyroSens   [3]int16
	Source                 Source
}

// DefaultCalibration is used when no block could be read.
func DefaultCalibration() Calibration {
	c := Calibration{Source: SourceDefault}
	for i := range 3 {
		c.AccelSens[i] = DefaultAccelSens
		c.GyroSens[i] = DefaultGyroSens
	}
	return c
}

// ParseCalibration reads a 24-byte block: accel origin, accel sensitivity,
// gyro origin, gyro sensitivity, three int16 each.
func ParseCalibration(b []byte, src Source) (Calibration, bool) {
	if len(b) < int(IMUCalSize) {
		return Calibration{}, false
	}
	c := Calibration{Source: src}
	for i := range 3 {
		c.AccelOrigin[i] = ReadInt16LE(b[2*i:])
		c.AccelSens[i] = ReadInt16LE(b[6+2*i:])
		c.GyroOrigin[i] = ReadInt16LE(b[12+2*i:])
		c.GyroSens[i] = ReadInt16LE(b[18+2*i:])
	}
	return c, true
}

// Accel converts raw accelerometer readings into DS4 units.
func (c Calibration) Accel(raw [3]int16) [3]int32 {
	var out [3]int32
	for i, r := range raw {
		out[i] = scale(r, c.AccelOrigin[i], c.AccelSens[i], DefaultAccelSens, accelRangeG*AccelPerG)
	}
	return out
}

// Gyro converts raw gyroscope readings into DS4 units.
func (c Calibration) Gyro(raw [3]int16) [3]int32 {
	var out [3]int32
	for i, r := range raw {
		out[i] = scale(r, c.GyroOrigin[i], c.GyroSens[i], DefaultGyroSens, gyroRange*GyroPerDPS)
	}
	return out
}

func scale(raw, origin, sens, fallback int16, full float64) int32 {
	span := int32(sens) - int32(origin)
	if span == 0 {
		origin, span = 0, int32(fallback)
	}
	return int32(math.Round(float64(int32(raw)-int32(origin)) * full / float64(span)))
}

// LoadCalibration reads the IMU calibration, preferring the user block when
// its marker is present. Any failure falls back to DefaultCalibration.
func (c *Conn) LoadCalibration(ctx context.Context) Calibration {
	addr, src := FactoryIMUAddr, SourceFactory
	marker, err := c.ReadSPI(ctx, UserMarkerAddr, uint8(len(userMarker)))
	switch {
	case err == nil && bytes.Equal(marker, userMarker):
		addr, src = UserIMUAddr, SourceUser
	case err != nil:
		c.logger.Warn("failed to read user calibration marker", "error", err)
	}

	block, err := c.ReadSPI(ctx, addr, IMUCalSize)
	if err != nil && src == SourceUser {
		c.logger.Warn("failed to read user calibration, trying factory", "error", err)
		addr, src = FactoryIMUAddr, SourceFactory
		block, err = c.ReadSPI(ctx, addr, IMUCalSize)
	}
	if err != nil {
		if errors.Is(err, ErrExhausted) {
			c.logger.Warn("calibration unavailable, using defaults", "error", err)
		} else {
			c.logger.Error("calibration read failed, using defaults", "error", err)
		}
		return DefaultCalibration()
	}
	cal, ok := ParseCalibration(block, src)
	if !ok {
		return DefaultCalibration()
	}
	c.logger.Debug("loaded calibration", "source", src.String())
	return cal
}
