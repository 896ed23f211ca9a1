package endpoint

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendRecvRoundTrip(t *testing.T) {
	server, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	client, err := Dial(server.LocalAddr().String())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Send([]byte("hello"), nil))

	pkt, addr, err := server.Recv()
	require.NoError(t, err)
	require.NotNil(t, addr)
	require.Equal(t, []byte("hello"), pkt)

	require.NoError(t, server.Send([]byte("world"), addr))
	reply, _, err := client.Recv()
	require.NoError(t, err)
	require.Equal(t, []byte("world"), reply)
}

func TestRecvTimeout(t *testing.T) {
	server, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()
	server.SetTimeout(20 * time.Millisecond)

	_, _, err = server.Recv()
	require.True(t, errors.Is(err, ErrTimeout))
}
