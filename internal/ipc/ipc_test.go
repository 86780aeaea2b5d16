package ipc

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	msg := NewMessage(MsgStatus, 42, []byte(`{"a":1}`))

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))
	assert.Equal(t, HeaderSize+7, buf.Len())

	got, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(ProtocolMagic), got.Header.Magic)
	assert.Equal(t, MsgStatus, got.Header.Type)
	assert.Equal(t, uint32(42), got.Header.RequestID)
	assert.Equal(t, []byte(`{"a":1}`), got.Payload)
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	h := Header{Magic: 0xdeadbeef, Version: ProtocolVersion}
	require.NoError(t, h.Write(&buf))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
}

func TestReadMessageRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	h := Header{Magic: ProtocolMagic, Version: ProtocolVersion, Length: MaxPayloadSize + 1}
	require.NoError(t, h.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

func testHandler(t *testing.T) Handler {
	return HandlerFunc(func(ctx context.Context, msg *Message) (*Message, error) {
		switch msg.Header.Type {
		case MsgStatus:
			return NewResponse(MsgStatusResp, msg.Header.RequestID, &StatusResponse{
				Version:     "test",
				Mode:        "intercept",
				DictEntries: 7,
			})
		case MsgSetMode:
			var req SetModeRequest
			if err := Decode(msg.Payload, &req); err != nil {
				return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "bad payload"), nil
			}
			return NewResponse(MsgSetModeResp, msg.Header.RequestID, &SetModeResponse{Mode: req.Mode})
		default:
			return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "unknown type"), nil
		}
	})
}

func startTestServer(t *testing.T) *Server {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "liuime.sock")
	srv := NewServer(socket, testHandler(t))
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func TestClientServerLoopback(t *testing.T) {
	srv := startTestServer(t)

	client, err := Dial(srv.SocketPath())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping())

	status, err := client.Status()
	require.NoError(t, err)
	assert.Equal(t, "test", status.Version)
	assert.Equal(t, 7, status.DictEntries)

	mode, err := client.SetMode("passthrough")
	require.NoError(t, err)
	assert.Equal(t, "passthrough", mode.Mode)
}

func TestClientSurfacesDaemonErrors(t *testing.T) {
	srv := startTestServer(t)

	client, err := Dial(srv.SocketPath())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Stats() // handler does not implement it
	assert.ErrorContains(t, err, "unknown type")
}

func TestSequentialRequestsOnOneConnection(t *testing.T) {
	srv := startTestServer(t)

	client, err := Dial(srv.SocketPath())
	require.NoError(t, err)
	defer client.Close()

	for i := 0; i < 10; i++ {
		status, err := client.Status()
		require.NoError(t, err)
		assert.Equal(t, "intercept", status.Mode)
	}
}

func TestDialMissingSocketFails(t *testing.T) {
	_, err := Dial(filepath.Join(t.TempDir(), "nope.sock"))
	assert.Error(t, err)
}
