package reliability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/endpoint"
	"github.com/lukscarv/drtp/internal/faults"
	"github.com/stretchr/testify/require"
)

func pairedEndpoints(t *testing.T) (server, client *endpoint.Endpoint) {
	t.Helper()
	server, err := endpoint.Listen("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	client, err = endpoint.Dial(server.LocalAddr().String())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return server, client
}

func randomData(n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(42)).Read(b)
	return b
}

func runScenario(t *testing.T, send SendFunc, recv ReceiveFunc, size int, senderFault config.Fault, receiverFault config.Fault) {
	t.Helper()
	server, client := pairedEndpoints(t)
	data := randomData(size)

	serverDone := make(chan struct{})
	var received []byte
	var recvErr error
	go func() {
		defer close(serverDone)
		received, recvErr = recv(server, client.LocalAddr(), faults.NewSkipAck(receiverFault), nil)
	}()

	err := send(client, server.LocalAddr(), data, faults.New(senderFault), nil, nil)
	require.NoError(t, err)

	select {
	case <-serverDone:
	case <-time.After(5 * time.Second):
		t.Fatal("receiver did not finish")
	}
	require.NoError(t, recvErr)
	require.Equal(t, data, received)
}

func TestStopAndWaitClean(t *testing.T) {
	runScenario(t, StopAndWaitSend, StopAndWaitReceive, 3000, config.NoFault, config.NoFault)
}

func TestStopAndWaitLose(t *testing.T) {
	runScenario(t, StopAndWaitSend, StopAndWaitReceive, 3000, config.Lose, config.NoFault)
}

func TestGoBackNSkipAck(t *testing.T) {
	runScenario(t, GoBackNSend, GoBackNReceive, 7300, config.NoFault, config.SkipAck)
}

func TestGoBackNClean(t *testing.T) {
	runScenario(t, GoBackNSend, GoBackNReceive, 14600, config.NoFault, config.NoFault)
}

func TestSelectiveRepeatDouble(t *testing.T) {
	runScenario(t, SelectiveRepeatSend, SelectiveRepeatReceive, 7300, config.Double, config.NoFault)
}

func TestSelectiveRepeatLose(t *testing.T) {
	runScenario(t, SelectiveRepeatSend, SelectiveRepeatReceive, 14600, config.Lose, config.NoFault)
}

func TestGoBackNWindowInvariant(t *testing.T) {
	w := &gbnWindow{base: 1, nextSeq: 1, total: 20, sentOnce: make(map[uint16]bool)}
	const n = uint16(config.DefaultWindowSize)
	w.nextSeq = w.base + n
	require.LessOrEqual(t, w.base, w.nextSeq)
	require.LessOrEqual(t, w.nextSeq, w.base+n)
}

func TestSelectiveRepeatReceiverContiguousPrefix(t *testing.T) {
	server, client := pairedEndpoints(t)
	server.SetTimeout(2 * time.Second)
	data := randomData(7300)

	serverDone := make(chan struct{})
	var received []byte
	var recvErr error
	go func() {
		defer close(serverDone)
		received, recvErr = SelectiveRepeatReceive(server, client.LocalAddr(), faults.NewSkipAck(config.NoFault), nil)
	}()

	require.NoError(t, SelectiveRepeatSend(client, server.LocalAddr(), data, faults.New(config.NoFault), nil, nil))

	select {
	case <-serverDone:
	case <-time.After(5 * time.Second):
		t.Fatal("receiver did not finish")
	}
	require.NoError(t, recvErr)
	require.Equal(t, data, received)
}
