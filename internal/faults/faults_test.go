package faults

import (
	"testing"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPolicyLoseFiresOnceOnSecondPacket(t *testing.T) {
	p := New(config.Lose)
	assert.Equal(t, ActionNone, p.OnCreate())
	assert.Equal(t, ActionLose, p.OnCreate())
	assert.Equal(t, ActionNone, p.OnCreate())
	assert.Equal(t, ActionNone, p.OnCreate())
}

func TestPolicyDoubleFiresOnceOnSecondPacket(t *testing.T) {
	p := New(config.Double)
	assert.Equal(t, ActionNone, p.OnCreate())
	assert.Equal(t, ActionDouble, p.OnCreate())
	assert.Equal(t, ActionNone, p.OnCreate())
}

func TestPolicyNoFaultNeverFires(t *testing.T) {
	p := New(config.NoFault)
	for i := 0; i < 5; i++ {
		assert.Equal(t, ActionNone, p.OnCreate())
	}
}

func TestPolicyNilIsSafe(t *testing.T) {
	var p *Policy
	assert.Equal(t, ActionNone, p.OnCreate())
}

func TestSkipAckFiresOnceOnSecondReceived(t *testing.T) {
	s := NewSkipAck(config.SkipAck)
	assert.False(t, s.ShouldSkip())
	assert.True(t, s.ShouldSkip())
	assert.False(t, s.ShouldSkip())
}

func TestSkipAckInactiveNeverFires(t *testing.T) {
	s := NewSkipAck(config.NoFault)
	for i := 0; i < 5; i++ {
		assert.False(t, s.ShouldSkip())
	}
}
