package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/glintlabs/glint/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestServerGracefulShutdown(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Port = 0 // ephemeral port

	srv := NewServer(cfg, http.NewServeMux(), zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := config.DefaultConfig().Server
	srv := NewServer(cfg, http.NewServeMux(), zaptest.NewLogger(t))
	assert.Equal(t, ":8080", srv.Addr())
}
