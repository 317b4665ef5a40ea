package io

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControl(t *testing.T) {
	assert := assert.New(t)

	mc := &Control{}
	assert.Equal([]uint16{0xfffe}, mc.Ports())
	assert.Equal(map[string]string{"MCR": "xFFFE"}, maps.Collect(mc.Defines()))

	mc.Rewind()
	assert.True(mc.Running())
	assert.Equal(MCR_CLOCK, mc.Load(PORT_MCR))

	mc.Store(PORT_MCR, mc.Load(PORT_MCR)&0x7fff)
	assert.False(mc.Running())

	mc.Store(PORT_MCR, 0x8123)
	assert.True(mc.Running())
	assert.Equal(uint16(0x8123), mc.Load(PORT_MCR))

	mc.Halt()
	assert.False(mc.Running())
	assert.Equal(uint16(0x0123), mc.Load(PORT_MCR))
}
