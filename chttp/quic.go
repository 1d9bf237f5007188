package chttp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go/http3"

	"github.com/crest-engine/crest/internal/ctls"
)

// ServeQUIC serves the given handler over HTTP/3
// on the given UDP address until ctx is canceled.
//
// When tlsConf is nil, an ephemeral self-signed certificate is generated,
// which is only useful for clients that skip verification.
func ServeQUIC(
	ctx context.Context,
	log *slog.Logger,
	addr string,
	tlsConf *tls.Config,
	h http.Handler,
) error {
	if tlsConf == nil {
		var err error
		tlsConf, err = ctls.EphemeralServerConfig(nil, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to generate ephemeral TLS config: %w", err)
		}
	}

	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http3.Server{
		TLSConfig: http3.ConfigureTLSConfig(tlsConf),
		Handler:   h,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(conn)
	}()

	log.Info("Serving HTTP/3", "addr", conn.LocalAddr())

	select {
	case <-ctx.Done():
		if err := srv.Close(); err != nil {
			log.Warn("Error closing HTTP/3 server", "err", err)
		}
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP/3 server stopped: %w", err)
	}
}
