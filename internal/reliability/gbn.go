package reliability

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/faults"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/metrics"
	"github.com/lukscarv/drtp/internal/protocol"
)

// gbnWindow is the sender's shared window state, guarded by mu.
// base and nextSeq obey base <= nextSeq <= base+N throughout.
type gbnWindow struct {
	mu       sync.Mutex
	base     uint16
	nextSeq  uint16
	total    uint16
	sentOnce map[uint16]bool
}

// GoBackNSend sends data under the Go-Back-N discipline: a sliding
// window of config.DefaultWindowSize unacknowledged packets, the
// entire window retransmitted whenever the receive side times out
// waiting for its next cumulative ACK.
func GoBackNSend(ep *endpoint.Endpoint, addr *net.UDPAddr, data []byte, pol *faults.Policy, log *logger.Logger, sampler *metrics.Sampler) error {
	chunks := protocol.Chunk(data, config.ChunkSize)
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}
	total := uint16(len(chunks))
	packets := make(map[uint16][]byte, total)
	lengths := make(map[uint16]int, total)
	for i, c := range chunks {
		seq := uint16(i + 1)
		packets[seq] = protocol.DataPacket(seq, c, seq == total)
		lengths[seq] = len(c)
	}

	w := &gbnWindow{base: 1, nextSeq: 1, total: total, sentOnce: make(map[uint16]bool)}
	const windowN = uint16(config.DefaultWindowSize)

	sendSeq := func(seq uint16) error {
		w.mu.Lock()
		first := !w.sentOnce[seq]
		w.sentOnce[seq] = true
		pkt := packets[seq]
		w.mu.Unlock()

		if first {
			sampler.Add(lengths[seq])
			switch pol.OnCreate() {
			case faults.ActionLose:
				if log != nil {
					log.Debug("gbn: fault lose seq=%d", seq)
				}
				return nil
			case faults.ActionDouble:
				if err := ep.Send(pkt, addr); err != nil {
					return err
				}
				if log != nil {
					log.Debug("gbn: fault double seq=%d", seq)
				}
				return ep.Send(pkt, addr)
			}
		}
		return ep.Send(pkt, addr)
	}

	resendWindow := func() error {
		w.mu.Lock()
		base, next := w.base, w.nextSeq
		w.mu.Unlock()
		for seq := base; seq < next; seq++ {
			w.mu.Lock()
			pkt := packets[seq]
			w.mu.Unlock()
			if err := ep.Send(pkt, addr); err != nil {
				return err
			}
		}
		if log != nil && next > base {
			log.Debug("gbn: timeout, retransmitted window [%d,%d)", base, next)
		}
		return nil
	}

	done := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			w.mu.Lock()
			if w.base > w.total {
				w.mu.Unlock()
				return
			}
			if w.nextSeq <= w.total && w.nextSeq < w.base+windowN {
				seq := w.nextSeq
				w.nextSeq++
				w.mu.Unlock()
				if err := sendSeq(seq); err != nil {
					errs <- err
					return
				}
				continue
			}
			w.mu.Unlock()
			time.Sleep(config.SRPollInterval)
		}
	}()

	for {
		w.mu.Lock()
		finished := w.base > w.total
		w.mu.Unlock()
		if finished {
			close(done)
			break
		}

		pkt, _, err := ep.Recv()
		if errors.Is(err, endpoint.ErrTimeout) {
			if err := resendWindow(); err != nil {
				close(done)
				wg.Wait()
				return err
			}
			continue
		}
		if err != nil {
			close(done)
			wg.Wait()
			return err
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			continue
		}
		_, isAck, _ := protocol.FlagBits(h.Flags)
		if !isAck {
			continue
		}
		w.mu.Lock()
		if h.Ack > w.base {
			w.base = h.Ack
		}
		w.mu.Unlock()
	}

	wg.Wait()
	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}

// GoBackNReceive receives under Go-Back-N: only the packet matching
// expected_seq is ever delivered or advances state. Anything else —
// ahead-of-order or a duplicate — is discarded outright, except that
// a duplicate (seq < expected) still earns a re-ACK so a sender stuck
// behind a lost ACK can resynchronize instead of stalling forever.
func GoBackNReceive(ep *endpoint.Endpoint, addr *net.UDPAddr, skip *faults.SkipAck, log *logger.Logger) ([]byte, error) {
	var out []byte
	var expected uint16 = 1
	for {
		pkt, from, err := ep.Recv()
		if errors.Is(err, endpoint.ErrTimeout) {
			continue
		}
		if err != nil {
			return nil, err
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			continue
		}
		_, _, fin := protocol.FlagBits(h.Flags)

		switch {
		case h.Seq == expected:
			out = append(out, protocol.Payload(pkt)...)
			expected++
			if !skip.ShouldSkip() {
				ack := protocol.ACKPacket(h.Seq, expected)
				if fin {
					ack = protocol.FinAckPacket(h.Seq, expected)
				}
				if err := ep.Send(ack, from); err != nil {
					return nil, err
				}
			} else if log != nil {
				log.Debug("gbn: fault skip_ack seq=%d", h.Seq)
			}
			if fin {
				return out, nil
			}
		case h.Seq < expected:
			if err := ep.Send(protocol.ACKPacket(h.Seq, expected), from); err != nil {
				return nil, err
			}
		default:
			// seq > expected: out-of-order, discarded. The sender's
			// window-wide timeout retransmit is what recovers this.
		}
	}
}
