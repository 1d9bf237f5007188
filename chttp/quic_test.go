package chttp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crest-engine/crest/chash"
	"github.com/crest-engine/crest/chttp"
	"github.com/crest-engine/crest/cstore"
	"github.com/crest-engine/crest/internal/ctest"
)

func TestServeQUIC_stopsCleanlyOnCancel(t *testing.T) {
	t.Parallel()

	srv := chttp.NewServer(chttp.ServerConfig{
		Log:   ctest.NewLogger(t),
		Store: cstore.New(chash.NewSip()),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- chttp.ServeQUIC(ctx, ctest.NewLogger(t), "127.0.0.1:0", nil, srv)
	}()

	// Let the listener come up before stopping it.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP/3 server did not stop after context cancellation")
	}
}
