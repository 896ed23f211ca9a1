package reliability

import (
	"fmt"
	"net"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/faults"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/metrics"
)

// SendFunc moves a byte buffer to addr under one reliability engine.
// sampler may be nil; when set, each newly transmitted chunk (not
// retransmissions) is recorded for a live throughput display.
type SendFunc func(ep *endpoint.Endpoint, addr *net.UDPAddr, data []byte, pol *faults.Policy, log *logger.Logger, sampler *metrics.Sampler) error

// ReceiveFunc assembles a byte buffer from addr under one reliability
// engine.
type ReceiveFunc func(ep *endpoint.Endpoint, addr *net.UDPAddr, skip *faults.SkipAck, log *logger.Logger) ([]byte, error)

// Sender resolves the Send side of the named engine.
func Sender(r config.Reliable) (SendFunc, error) {
	switch r {
	case config.StopAndWait:
		return StopAndWaitSend, nil
	case config.GoBackN:
		return GoBackNSend, nil
	case config.SelectiveRepeat:
		return SelectiveRepeatSend, nil
	default:
		return nil, fmt.Errorf("reliability: unknown engine %q", r)
	}
}

// Receiver resolves the Receive side of the named engine.
func Receiver(r config.Reliable) (ReceiveFunc, error) {
	switch r {
	case config.StopAndWait:
		return StopAndWaitReceive, nil
	case config.GoBackN:
		return GoBackNReceive, nil
	case config.SelectiveRepeat:
		return SelectiveRepeatReceive, nil
	default:
		return nil, fmt.Errorf("reliability: unknown engine %q", r)
	}
}
