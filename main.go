package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"EvoScope/internal/observer"
	"EvoScope/internal/protocol"
	"EvoScope/internal/server"
	"EvoScope/internal/sim"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evoscope",
		Short: "Live observer for a continuously-running ecosystem simulation",
		Long: `EvoScope runs an authoritative ecosystem simulation and streams its
state to remote observers over websockets: one full snapshot at handshake,
then one change-set per simulation tick.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(), observeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		seed       int64
		organisms  int
		plants     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(configPath, server.DefaultConfig())
			if err != nil {
				return err
			}

			var overrides server.Overrides
			if cmd.Flags().Changed("addr") {
				overrides.Addr = &addr
			}
			if cmd.Flags().Changed("seed") {
				overrides.Seed = &seed
			}
			if cmd.Flags().Changed("organisms") {
				overrides.Organisms = &organisms
			}
			if cmd.Flags().Changed("plants") {
				overrides.Plants = &plants
			}
			cfg = overrides.Apply(cfg)

			return server.StartApp(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "configs/world.json", "path to world config JSON")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "world generation seed")
	cmd.Flags().IntVar(&organisms, "organisms", 0, "override initial organism count")
	cmd.Flags().IntVar(&plants, "plants", 0, "override initial plant count")
	return cmd
}

func observeCmd() *cobra.Command {
	var (
		serverURL string
		codecName string
		cols      int
		rows      int
	)

	cmd := &cobra.Command{
		Use:   "observe",
		Short: "Connect to a running server and render the world in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			codec, err := protocol.ByName(codecName)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			surface := observer.NewTerminalSurface(os.Stdout, cols, rows, sim.WorldW, sim.WorldH)
			viewer := observer.New(surface, observer.WithCodec(codec))

			client, err := observer.Dial(ctx, serverURL, viewer, log)
			if err != nil {
				return err
			}
			defer client.Close()

			go viewer.Run(ctx)

			if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "ws://127.0.0.1:8080/ws", "server stream endpoint")
	cmd.Flags().StringVar(&codecName, "codec", "msgpack", "wire codec (msgpack or json)")
	cmd.Flags().IntVar(&cols, "cols", 120, "terminal grid width")
	cmd.Flags().IntVar(&rows, "rows", 40, "terminal grid height")
	return cmd
}
