//go:build !windows

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitFile(t *testing.T) {
	got := unitFile("/opt/pad map/padmap", []string{"run", "--connect", "ws://localhost:3242/pad"})
	assert.Equal(t, `[Unit]
Description=padmap gamepad translation

[Service]
ExecStart="/opt/pad map/padmap" run --connect ws://localhost:3242/pad
Restart=on-failure
RestartSec=2

[Install]
WantedBy=default.target
`, got)
}
