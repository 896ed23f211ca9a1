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

type srRecord struct {
	pkt      []byte
	sendTime time.Time
}

// srWindow is the sender's shared window state, guarded by mu. Unlike
// Go-Back-N, each in-flight packet carries its own timer and is
// retransmitted individually rather than as a whole-window resend.
type srWindow struct {
	mu       sync.Mutex
	base     uint16
	nextSeq  uint16
	total    uint16
	sentOnce map[uint16]bool
	inflight map[uint16]*srRecord
	acked    map[uint16]bool
}

// SelectiveRepeatSend sends data under the Selective Repeat
// discipline: a sliding window of config.DefaultWindowSize
// unacknowledged packets, each with its own retransmission timer,
// acknowledged and retransmitted individually.
func SelectiveRepeatSend(ep *endpoint.Endpoint, addr *net.UDPAddr, data []byte, pol *faults.Policy, log *logger.Logger, sampler *metrics.Sampler) error {
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

	w := &srWindow{
		base: 1, nextSeq: 1, total: total,
		sentOnce: make(map[uint16]bool),
		inflight: make(map[uint16]*srRecord),
		acked:    make(map[uint16]bool),
	}
	const windowN = uint16(config.DefaultWindowSize)

	transmitOne := func(seq uint16) error {
		w.mu.Lock()
		first := !w.sentOnce[seq]
		w.sentOnce[seq] = true
		pkt := packets[seq]
		w.inflight[seq] = &srRecord{pkt: pkt, sendTime: time.Now()}
		w.mu.Unlock()

		if first {
			sampler.Add(lengths[seq])
			switch pol.OnCreate() {
			case faults.ActionLose:
				if log != nil {
					log.Debug("sr: fault lose seq=%d", seq)
				}
				return nil
			case faults.ActionDouble:
				if err := ep.Send(pkt, addr); err != nil {
					return err
				}
				if log != nil {
					log.Debug("sr: fault double seq=%d", seq)
				}
				return ep.Send(pkt, addr)
			}
		}
		return ep.Send(pkt, addr)
	}

	ep.SetTimeout(config.SRPollInterval)
	defer ep.SetTimeout(config.DefaultTimeout)

	done := make(chan struct{})
	sendErrs := make(chan error, 2)
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
				if err := transmitOne(seq); err != nil {
					sendErrs <- err
					return
				}
				continue
			}

			// Window full or all chunks enqueued: scan in-flight
			// records for ones that have aged past the timeout and
			// retransmit them individually.
			now := time.Now()
			var expired []uint16
			for seq, rec := range w.inflight {
				if now.Sub(rec.sendTime) >= config.DefaultTimeout {
					expired = append(expired, seq)
				}
			}
			w.mu.Unlock()
			for _, seq := range expired {
				w.mu.Lock()
				rec, ok := w.inflight[seq]
				if ok {
					rec.sendTime = time.Now()
				}
				pkt := packets[seq]
				w.mu.Unlock()
				if !ok {
					continue
				}
				if err := ep.Send(pkt, addr); err != nil {
					sendErrs <- err
					return
				}
				if log != nil {
					log.Debug("sr: timeout, retransmitted seq=%d", seq)
				}
			}
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
		seq := h.Seq
		if seq >= w.base {
			w.acked[seq] = true
			delete(w.inflight, seq)
			for w.acked[w.base] {
				delete(w.acked, w.base)
				w.base++
			}
		}
		w.mu.Unlock()
	}

	wg.Wait()
	select {
	case err := <-sendErrs:
		return err
	default:
		return nil
	}
}

// SelectiveRepeatReceive receives under Selective Repeat: every data
// packet is ACKed individually; packets that arrive ahead of
// expected_seq are buffered and delivered once the gap closes, and
// duplicates below expected_seq are re-ACKed without re-delivery.
func SelectiveRepeatReceive(ep *endpoint.Endpoint, addr *net.UDPAddr, skip *faults.SkipAck, log *logger.Logger) ([]byte, error) {
	var out []byte
	var expected uint16 = 1
	buffer := make(map[uint16][]byte)
	finSeq := uint16(0)

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
		payload := append([]byte(nil), protocol.Payload(pkt)...)
		_, _, fin := protocol.FlagBits(h.Flags)
		if fin {
			finSeq = h.Seq
		}

		switch {
		case h.Seq == expected:
			out = append(out, payload...)
			expected++
			for {
				next, ok := buffer[expected]
				if !ok {
					break
				}
				out = append(out, next...)
				delete(buffer, expected)
				expected++
			}
		case h.Seq > expected:
			if _, exists := buffer[h.Seq]; !exists {
				buffer[h.Seq] = payload
			}
		default:
			// h.Seq < expected: duplicate, already delivered.
		}

		if !skip.ShouldSkip() {
			ack := protocol.ACKPacket(h.Seq, h.Seq+1)
			if err := ep.Send(ack, from); err != nil {
				return nil, err
			}
		} else if log != nil {
			log.Debug("sr: fault skip_ack seq=%d", h.Seq)
		}

		if finSeq != 0 && expected > finSeq {
			return out, nil
		}
	}
}
