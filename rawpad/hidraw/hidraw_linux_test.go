//go:build linux

package hidraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoctlNumbers(t *testing.T) {
	assert.Equal(t, uintptr(0x80044801), hidiocGRDescSize)
	assert.Equal(t, uintptr(0x90044802), hidiocGRDesc)
	assert.Equal(t, uintptr(0x80084803), hidiocGRawInfo)
	assert.Equal(t, uintptr(0x81004804), hidiocGRawName)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("/nonexistent/hidraw99")
	assert.Error(t, err)
}
