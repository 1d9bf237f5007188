// Command crestd serves a crest file table over HTTP,
// and optionally over HTTP/3.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crest-engine/crest/chash"
	"github.com/crest-engine/crest/chttp"
	"github.com/crest-engine/crest/cstore"
)

func main() {
	app := &cli.App{
		Name:  "crestd",
		Usage: "file server with Merkle commitments over its file table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Value:   ":8080",
				Usage:   "TCP address for the HTTP listener",
				EnvVars: []string{"CRESTD_LISTEN"},
			},
			&cli.StringFlag{
				Name:    "quic-listen",
				Usage:   "UDP address for an additional HTTP/3 listener (disabled when empty)",
				EnvVars: []string{"CRESTD_QUIC_LISTEN"},
			},
			&cli.StringFlag{
				Name:    "hasher",
				Value:   "sip",
				Usage:   "leaf hasher, one of: sip, xx",
				EnvVars: []string{"CRESTD_HASHER"},
			},
			&cli.Uint64Flag{
				Name:    "sip-k0",
				Value:   chash.DefaultSipK0,
				Usage:   "first half of the SipHash key (sip hasher only)",
				EnvVars: []string{"CRESTD_SIP_K0"},
			},
			&cli.Uint64Flag{
				Name:    "sip-k1",
				Value:   chash.DefaultSipK1,
				Usage:   "second half of the SipHash key (sip hasher only)",
				EnvVars: []string{"CRESTD_SIP_K1"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "one of: debug, info, warn, error",
				EnvVars: []string{"CRESTD_LOG_LEVEL"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}

	h, err := chash.ByName(c.String("hasher"))
	if err != nil {
		return err
	}
	if _, ok := h.(chash.Sip); ok {
		h = chash.Sip{K0: c.Uint64("sip-k0"), K1: c.Uint64("sip-k1")}
	}

	srv := chttp.NewServer(chttp.ServerConfig{
		Log:   log.With("sys", "http"),
		Store: cstore.New(h),
	})

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpSrv := &http.Server{
		Addr:    c.String("listen"),
		Handler: srv,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info("Serving HTTP", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server stopped: %w", err)
			return
		}
		errCh <- nil
	}()

	if quicAddr := c.String("quic-listen"); quicAddr != "" {
		go func() {
			errCh <- chttp.ServeQUIC(ctx, log.With("sys", "quic"), quicAddr, nil, srv)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		log.Warn("Error shutting down HTTP server", "err", err)
	}

	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}
