package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromHTTPURL(t *testing.T) {
	tests := []struct {
		url       string
		wantAddr  string
		wantProto string
	}{
		{"http://localhost:8000", "localhost:8000", "http"},
		{"http://localhost:8000/api", "localhost:8000", "http"},
		{"http://racetrace.example", "racetrace.example:80", "http"},
		{"https://racetrace.example/", "racetrace.example:443", "https"},
		{"https://racetrace.example:8443/x/y", "racetrace.example:8443", "https"},
		{"ws://localhost:8080/ws", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			addr, proto := ExtractFromHTTPURL(tt.url)
			assert.Equal(t, tt.wantAddr, addr)
			assert.Equal(t, tt.wantProto, proto)
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer l.Close()

	assert.NoError(t, WaitForTCP(context.Background(), l.Addr().String(), time.Second))
}

func TestWaitForTCP_unreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	assert.Error(t, WaitForTCP(context.Background(), addr, 300*time.Millisecond))
}

func TestWaitForTCP_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForTCP(ctx, "127.0.0.1:1", 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
