package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/store"
	"github.com/teslashibe/go-avatar/pkg/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var source string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the avatar API and WebSocket streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if source == "" {
				source = cfg.Server.DefaultAvatar
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			session, err := avatar.NewSession(cfg.Avatar, avatar.WithLogger(log.L()))
			if err != nil {
				return err
			}

			opts := []web.Option{web.WithLogger(log.L())}
			if !noStore && cfg.Store.Path != "" {
				st, err := store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer st.Close()
				opts = append(opts, web.WithStore(st))
			}
			server := web.NewServer(addr, session, opts...)

			if source != "" {
				if err := server.LoadAvatar(runCtx, source); err != nil {
					// The API can still load another avatar.
					log.Warn("default avatar not loaded", "source", source, "error", err)
				}
			}

			err = server.Start(runCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&source, "avatar", "", "Avatar asset path or URL (overrides server.default_avatar)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not persist accessories")

	return cmd
}
