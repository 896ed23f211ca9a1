package reliability

import (
	"errors"
	"net"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/faults"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/metrics"
	"github.com/lukscarv/drtp/internal/protocol"
)

// StopAndWaitSend sends data one chunk at a time, waiting for each
// chunk's ACK before sending the next, retransmitting on timeout or
// stale ACK. The last chunk carries the FIN bit; empty data is sent
// as one empty FIN-marked chunk.
func StopAndWaitSend(ep *endpoint.Endpoint, addr *net.UDPAddr, data []byte, pol *faults.Policy, log *logger.Logger, sampler *metrics.Sampler) error {
	chunks := protocol.Chunk(data, config.ChunkSize)
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}
	for i, chunk := range chunks {
		seq := uint16(i + 1)
		fin := i == len(chunks)-1
		pkt := protocol.DataPacket(seq, chunk, fin)

		action := pol.OnCreate()
		lost := action == faults.ActionLose
		sampler.Add(len(chunk))
		for {
			if !lost {
				if err := ep.Send(pkt, addr); err != nil {
					return err
				}
				if log != nil {
					log.Debug("sw: sent seq=%d fin=%v len=%d", seq, fin, len(chunk))
				}
			} else if log != nil {
				log.Debug("sw: fault lose seq=%d", seq)
			}
			lost = false

			reply, _, err := ep.Recv()
			if errors.Is(err, endpoint.ErrTimeout) {
				if log != nil {
					log.Debug("sw: timeout seq=%d, retransmitting", seq)
				}
				continue
			}
			if err != nil {
				return err
			}
			h, err := protocol.Decode(reply)
			if err != nil {
				continue
			}
			_, isAck, _ := protocol.FlagBits(h.Flags)
			if !isAck || h.Seq != seq || h.Ack != seq+1 {
				continue
			}
			break
		}
	}
	return nil
}

// StopAndWaitReceive receives a single in-flight chunk at a time from
// addr, ACKing each with seq=received_seq, ack=received_seq+1, until
// the FIN-marked chunk arrives. It returns the reassembled payload.
func StopAndWaitReceive(ep *endpoint.Endpoint, addr *net.UDPAddr, skip *faults.SkipAck, log *logger.Logger) ([]byte, error) {
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
		payload := protocol.Payload(pkt)
		_, _, fin := protocol.FlagBits(h.Flags)

		if h.Seq == expected {
			out = append(out, payload...)
			if !skip.ShouldSkip() {
				ack := protocol.ACKPacket(h.Seq, h.Seq+1)
				if err := ep.Send(ack, from); err != nil {
					return nil, err
				}
			} else if log != nil {
				log.Debug("sw: fault skip_ack seq=%d", h.Seq)
			}
			expected++
			if fin {
				return out, nil
			}
		} else {
			// Duplicate of the last delivered chunk: re-ACK it so a
			// sender stuck on a lost ACK can make progress.
			if h.Seq == expected-1 {
				ack := protocol.ACKPacket(h.Seq, h.Seq+1)
				if err := ep.Send(ack, from); err != nil {
					return nil, err
				}
			}
		}
	}
}
