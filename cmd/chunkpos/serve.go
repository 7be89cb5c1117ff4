package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/chunkpos/pkg/config"
	"github.com/praetorian-inc/chunkpos/pkg/indexer"
	"github.com/praetorian-inc/chunkpos/pkg/serve"
	"github.com/spf13/cobra"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run chunkpos as a long-lived streaming server that accepts index and
locate requests via stdin and writes responses to stdout using NDJSON format.

The process processes requests until stdin closes, a "close" request
arrives or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to YAML config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	core, err := indexer.NewCore(indexer.Config{
		Splitter: cfg.SplitterConfig(),
		Start:    cfg.Start,
	}, nil, debugLogger())
	if err != nil {
		return err
	}
	defer core.Close()

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
