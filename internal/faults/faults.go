// Package faults implements the protocol's three single-shot fault
// injection hooks, used to exercise the reliability engines'
// retransmission paths in tests and demos.
package faults

import "github.com/lukscarv/drtp/internal/config"

// Policy tracks a single fault's one-time trigger across a transfer.
// Every hook fires at most once per transfer, matching the reference
// implementation's per-run (not per-packet) fault behavior.
type Policy struct {
	kind    config.Fault
	created int
	fired   bool
}

// New builds a Policy for the named fault. An empty or unrecognized
// name yields a no-op policy.
func New(kind config.Fault) *Policy {
	return &Policy{kind: kind}
}

// Action names what a sender should do with the packet it just
// created, per OnCreate.
type Action int

const (
	// ActionNone sends the packet normally, exactly once.
	ActionNone Action = iota
	// ActionLose drops the packet silently; it is never sent.
	ActionLose
	// ActionDouble sends the packet, then sends it again immediately.
	ActionDouble
)

// OnCreate reports what to do with the nth data packet created this
// transfer (1-indexed). Only the lose and double faults ever return
// non-ActionNone, and each fires at most once, on the 2nd packet
// created.
func (p *Policy) OnCreate() Action {
	if p == nil {
		return ActionNone
	}
	p.created++
	if p.created != 2 || p.fired {
		return ActionNone
	}
	switch p.kind {
	case config.Lose:
		p.fired = true
		return ActionLose
	case config.Double:
		p.fired = true
		return ActionDouble
	default:
		return ActionNone
	}
}

// SkipAck tracks the receiver-side skip_ack hook separately, since it
// counts received data packets rather than created ones.
type SkipAck struct {
	active   bool
	received int
	fired    bool
}

// NewSkipAck builds a SkipAck tracker, active only when kind is
// config.SkipAck.
func NewSkipAck(kind config.Fault) *SkipAck {
	return &SkipAck{active: kind == config.SkipAck}
}

// ShouldSkip reports whether the ACK for the data packet just
// received, the nth one received this transfer (1-indexed), should be
// suppressed. Fires once, on the 2nd data packet received.
func (s *SkipAck) ShouldSkip() bool {
	if s == nil || !s.active {
		return false
	}
	s.received++
	if s.received == 2 && !s.fired {
		s.fired = true
		return true
	}
	return false
}
