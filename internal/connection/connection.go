// Package connection drives the three-way handshake and the teardown
// exchange shared by every reliability engine, independent of how the
// data phase in between moves bytes.
package connection

import (
	"errors"
	"fmt"
	"net"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/protocol"
)

// ErrHandshakeFailed is returned when the client exhausts its SYN
// retry budget without a SYN-ACK from the server.
var ErrHandshakeFailed = errors.New("connection: handshake failed after max retries")

// ClientHandshake performs the three-way handshake against addr,
// retrying the SYN up to config.MaxHandshakeRetries times on timeout.
// It returns the server's observed address, used as the destination
// for the rest of the transfer. addr may be nil for a connected
// endpoint (from endpoint.Dial), which always writes to the address
// it dialed regardless of what Send is given.
func ClientHandshake(ep *endpoint.Endpoint, addr *net.UDPAddr) (*net.UDPAddr, error) {
	syn := protocol.SYNPacket()
	for attempt := 0; attempt < config.MaxHandshakeRetries; attempt++ {
		if err := ep.Send(syn, addr); err != nil {
			return nil, fmt.Errorf("connection: send SYN: %w", err)
		}
		pkt, from, err := ep.Recv()
		if errors.Is(err, endpoint.ErrTimeout) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("connection: recv SYN-ACK: %w", err)
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			continue
		}
		isSyn, isAck, _ := protocol.FlagBits(h.Flags)
		if !isSyn || !isAck {
			continue
		}
		if err := ep.Send(protocol.ACKPacket(0, 0), from); err != nil {
			return nil, fmt.Errorf("connection: send ACK: %w", err)
		}
		return from, nil
	}
	return nil, ErrHandshakeFailed
}

// ServerHandshake blocks until it observes a complete three-way
// handshake from a client, returning that client's address. Each call
// handles a single handshake.
func ServerHandshake(ep *endpoint.Endpoint) (*net.UDPAddr, error) {
	for {
		pkt, from, err := ep.Recv()
		if errors.Is(err, endpoint.ErrTimeout) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("connection: recv SYN: %w", err)
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			continue
		}
		isSyn, _, _ := protocol.FlagBits(h.Flags)
		if !isSyn {
			continue
		}
		if err := ep.Send(protocol.SYNACKPacket(), from); err != nil {
			return nil, fmt.Errorf("connection: send SYN-ACK: %w", err)
		}
		ack, _, err := ep.Recv()
		if errors.Is(err, endpoint.ErrTimeout) {
			// Client likely never saw our SYN-ACK; let it retry.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("connection: recv final ACK: %w", err)
		}
		h, err = protocol.Decode(ack)
		if err != nil {
			continue
		}
		if h.Flags != protocol.FlagACK {
			continue
		}
		return from, nil
	}
}

// ClientTeardown sends the standalone FIN that follows the last data
// packet (itself already FIN-marked) and waits for the server's ACK,
// retrying on timeout up to the handshake retry budget.
func ClientTeardown(ep *endpoint.Endpoint, addr *net.UDPAddr) error {
	fin := protocol.FINPacket()
	for attempt := 0; attempt < config.MaxHandshakeRetries; attempt++ {
		if err := ep.Send(fin, addr); err != nil {
			return fmt.Errorf("connection: send FIN: %w", err)
		}
		pkt, _, err := ep.Recv()
		if errors.Is(err, endpoint.ErrTimeout) {
			continue
		}
		if err != nil {
			return fmt.Errorf("connection: recv FIN ACK: %w", err)
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			continue
		}
		_, isAck, _ := protocol.FlagBits(h.Flags)
		if isAck {
			return nil
		}
	}
	return fmt.Errorf("connection: teardown FIN unacknowledged after %d attempts", config.MaxHandshakeRetries)
}

// ServerAckFin sends the ACK for a standalone FIN the server just
// received from addr.
func ServerAckFin(ep *endpoint.Endpoint, addr *net.UDPAddr) error {
	return ep.Send(protocol.ACKPacket(0, 0), addr)
}

// IsFin reports whether a decoded header carries the FIN bit.
func IsFin(h protocol.Header) bool {
	_, _, fin := protocol.FlagBits(h.Flags)
	return fin
}
