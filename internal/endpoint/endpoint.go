// Package endpoint wraps a UDP socket with the fixed timeout and
// buffer sizing the protocol relies on, and turns read deadlines into
// a typed, checkable error.
package endpoint

import (
	"errors"
	"net"
	"time"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/protocol"
)

// ErrTimeout is returned by Recv when no packet arrives before the
// configured read deadline elapses.
var ErrTimeout = errors.New("endpoint: read timeout")

// Endpoint is a UDP socket sized and timed for DRTP traffic.
type Endpoint struct {
	conn      *net.UDPConn
	timeout   time.Duration
	connected bool
}

// Listen opens a UDP socket bound to addr (e.g. ":19000"), for server
// role use where the local address is fixed in advance.
func Listen(addr string) (*Endpoint, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return newEndpoint(conn, false), nil
}

// Dial opens a UDP socket connected to addr, for client role use.
func Dial(addr string) (*Endpoint, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return newEndpoint(conn, true), nil
}

func newEndpoint(conn *net.UDPConn, connected bool) *Endpoint {
	_ = conn.SetReadBuffer(config.DefaultReadBuffer)
	_ = conn.SetWriteBuffer(config.DefaultWriteBuffer)
	return &Endpoint{conn: conn, timeout: config.DefaultTimeout, connected: connected}
}

// SetTimeout overrides the read timeout used by Recv. Passing 0
// disables the deadline (Recv then blocks indefinitely).
func (e *Endpoint) SetTimeout(d time.Duration) {
	e.timeout = d
}

// LocalAddr returns the endpoint's bound local address.
func (e *Endpoint) LocalAddr() *net.UDPAddr {
	return e.conn.LocalAddr().(*net.UDPAddr)
}

// Send writes pkt to addr. A connected endpoint (from Dial) always
// writes to the address it dialed, ignoring addr, since a connected
// UDP socket rejects WriteToUDP. A listening endpoint (from Listen)
// requires addr.
func (e *Endpoint) Send(pkt []byte, addr *net.UDPAddr) error {
	if e.connected {
		_, err := e.conn.Write(pkt)
		return err
	}
	_, err := e.conn.WriteToUDP(pkt, addr)
	return err
}

// Recv reads the next packet, applying the endpoint's timeout. On
// expiry it returns ErrTimeout, checkable with errors.Is.
func (e *Endpoint) Recv() ([]byte, *net.UDPAddr, error) {
	if e.timeout > 0 {
		if err := e.conn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
			return nil, nil, err
		}
	} else {
		if err := e.conn.SetReadDeadline(time.Time{}); err != nil {
			return nil, nil, err
		}
	}
	buf := make([]byte, protocol.MaxPacketSize)
	n, addr, err := e.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil, ErrTimeout
		}
		return nil, nil, err
	}
	return buf[:n], addr, nil
}

// Close releases the underlying socket.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}
