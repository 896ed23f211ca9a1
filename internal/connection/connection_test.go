package connection

import (
	"testing"
	"time"

	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/protocol"
	"github.com/stretchr/testify/require"
)

func TestHandshakeRoundTrip(t *testing.T) {
	server, err := endpoint.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()
	server.SetTimeout(2 * time.Second)

	client, err := endpoint.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()
	client.SetTimeout(2 * time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := ServerHandshake(server)
		done <- err
	}()

	from, err := ClientHandshake(client, nil)
	require.NoError(t, err)
	require.NotNil(t, from)
	require.NoError(t, <-done)
}

func TestTeardownRoundTrip(t *testing.T) {
	server, err := endpoint.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()
	server.SetTimeout(2 * time.Second)

	client, err := endpoint.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()
	client.SetTimeout(2 * time.Second)

	done := make(chan error, 1)
	go func() {
		pkt, from, err := server.Recv()
		if err != nil {
			done <- err
			return
		}
		h, err := protocol.Decode(pkt)
		if err != nil {
			done <- err
			return
		}
		if !IsFin(h) {
			done <- nil
			return
		}
		done <- ServerAckFin(server, from)
	}()

	err = ClientTeardown(client, nil)
	require.NoError(t, err)
	require.NoError(t, <-done)
}
