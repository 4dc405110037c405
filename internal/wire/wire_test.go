package wire

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("hello")))
	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := Envelope{Kind: KindInitColonyRequest, Payload: InitColonyRequest{
		Width: 100, Height: 100, Rules: colony.DefaultColonyLifeRules(),
	}}
	require.NoError(t, Encode(&buf, req))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, KindInitColonyRequest, got.Kind)
	payload, ok := got.Payload.(InitColonyRequest)
	require.True(t, ok)
	assert.Equal(t, 100, payload.Width)
}

func TestCallOverLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		env, err := Decode(conn)
		if err != nil {
			return
		}
		if env.Kind != KindPing {
			return
		}
		_ = Encode(conn, Envelope{Kind: KindPong, Payload: PongResponse{}})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := Call(ctx, ln.Addr().String(), Envelope{Kind: KindPing, Payload: PingRequest{}})
	require.NoError(t, err)
	assert.Equal(t, KindPong, resp.Kind)
}
