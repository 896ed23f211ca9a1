// Package role drives a complete transfer from the command line's
// point of view: handshake, filename exchange, the configured
// reliability engine, teardown, and (client-side) the throughput
// report, tying together connection, reliability, and faults.
package role

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/connection"
	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/faults"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/metrics"
	"github.com/lukscarv/drtp/internal/protocol"
	"github.com/lukscarv/drtp/internal/reliability"
)

// ServerConfig configures a single server-side transfer.
type ServerConfig struct {
	Host     string
	Port     int
	Reliable config.Reliable
	Fault    config.Fault // only SkipAck is meaningful server-side
	// Save is called with the derived receive filename and the
	// reassembled bytes once the transfer completes, before teardown.
	Save func(name string, data []byte) error
	Log  *logger.Logger
}

// ClientConfig configures a single client-side transfer.
type ClientConfig struct {
	Host     string
	Port     int
	File     string
	Data     []byte
	Reliable config.Reliable
	Fault    config.Fault // only Lose/Double are meaningful client-side
	Log      *logger.Logger
	// Sampler, if non-nil, records live throughput samples as the
	// transfer progresses (for a GUI sparkline or similar display).
	Sampler *metrics.Sampler
}

// ReceiveName derives the server's output filename from the name the
// client sent: "_rcv" is inserted before the last '.', or appended if
// the name has none.
func ReceiveName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i] + "_rcv" + name[i:]
	}
	return name + "_rcv"
}

// RunServer accepts exactly one transfer, then returns. It does not
// loop: a new process (or a fresh RunServer call) is required per
// transfer, matching the protocol's single-client-at-a-time design.
func RunServer(cfg ServerConfig) error {
	if cfg.Fault == config.Lose || cfg.Fault == config.Double {
		return fmt.Errorf("role: %q is a client-only fault", cfg.Fault)
	}
	recv, err := reliability.Receiver(cfg.Reliable)
	if err != nil {
		return err
	}

	ep, err := endpoint.Listen(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	if err != nil {
		return fmt.Errorf("role: listen: %w", err)
	}
	defer ep.Close()

	if cfg.Log != nil {
		cfg.Log.Info("server: listening on %s:%d (%s)", cfg.Host, cfg.Port, cfg.Reliable)
	}

	clientAddr, err := connection.ServerHandshake(ep)
	if err != nil {
		return fmt.Errorf("role: handshake: %w", err)
	}
	if cfg.Log != nil {
		cfg.Log.Info("server: handshake complete with %s", clientAddr)
	}

	nameData, err := recvFilename(ep)
	if err != nil {
		return fmt.Errorf("role: filename exchange: %w", err)
	}
	outName := ReceiveName(string(nameData))
	if cfg.Log != nil {
		cfg.Log.Info("server: receiving into %s", outName)
	}

	skip := faults.NewSkipAck(cfg.Fault)
	data, err := recv(ep, clientAddr, skip, cfg.Log)
	if err != nil {
		return fmt.Errorf("role: %s receive: %w", cfg.Reliable, err)
	}

	if cfg.Save != nil {
		if err := cfg.Save(outName, data); err != nil {
			return fmt.Errorf("role: save %s: %w", outName, err)
		}
	}

	if err := serverTeardown(ep, clientAddr); err != nil {
		return fmt.Errorf("role: teardown: %w", err)
	}
	if cfg.Log != nil {
		cfg.Log.Info("server: transfer complete, %d bytes", len(data))
	}
	return nil
}

// RunClient dials the server, completes one transfer, and returns the
// throughput report string (see internal/metrics.Report) on success.
func RunClient(cfg ClientConfig) (string, error) {
	if cfg.Fault == config.SkipAck {
		return "", fmt.Errorf("role: %q is a server-only fault", cfg.Fault)
	}
	send, err := reliability.Sender(cfg.Reliable)
	if err != nil {
		return "", err
	}
	if cfg.Fault == config.Double && cfg.Reliable == config.StopAndWait {
		return "", fmt.Errorf("role: double fault is not defined for stop_and_wait")
	}

	ep, err := endpoint.Dial(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	if err != nil {
		return "", fmt.Errorf("role: dial: %w", err)
	}
	defer ep.Close()

	serverAddr, err := connection.ClientHandshake(ep, nil)
	if err != nil {
		return "", fmt.Errorf("role: handshake: %w", err)
	}
	if cfg.Log != nil {
		cfg.Log.Info("client: handshake complete with %s", serverAddr)
	}

	if err := sendFilename(ep, serverAddr, cfg.File); err != nil {
		return "", fmt.Errorf("role: filename exchange: %w", err)
	}

	pol := faults.New(cfg.Fault)
	start := time.Now()
	if err := send(ep, serverAddr, cfg.Data, pol, cfg.Log, cfg.Sampler); err != nil {
		return "", fmt.Errorf("role: %s send: %w", cfg.Reliable, err)
	}
	elapsed := time.Since(start)

	if err := connection.ClientTeardown(ep, serverAddr); err != nil {
		if cfg.Log != nil {
			cfg.Log.Warn("client: %v", err)
		}
	}

	return metrics.Report(int64(len(cfg.Data)), elapsed), nil
}

func recvFilename(ep *endpoint.Endpoint) ([]byte, error) {
	pkt, _, err := ep.Recv()
	if err != nil {
		return nil, err
	}
	if _, err := protocol.Decode(pkt); err != nil {
		return nil, err
	}
	return protocol.Payload(pkt), nil
}

func sendFilename(ep *endpoint.Endpoint, addr *net.UDPAddr, name string) error {
	pkt := protocol.Encode(0, 0, 0, 0, []byte(name))
	return ep.Send(pkt, addr)
}

func serverTeardown(ep *endpoint.Endpoint, addr *net.UDPAddr) error {
	for {
		pkt, from, err := ep.Recv()
		if err != nil {
			return err
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			continue
		}
		if connection.IsFin(h) {
			return connection.ServerAckFin(ep, from)
		}
	}
}
