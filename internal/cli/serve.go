package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emrekir/vidprobe/internal/core/config"
	"github.com/emrekir/vidprobe/internal/core/version"
	"github.com/emrekir/vidprobe/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the metadata extraction API server",
	Long: `Start an HTTP server that extracts video metadata on request.

Examples:
  vidprobe serve              # Listen on the configured host and port
  vidprobe serve -p 9000      # Override the listen port

API Endpoints:
  GET  /api/health            # Health check
  GET  /api/platforms         # List supported platforms
  GET  /api/fetch?url=...     # Extract metadata for a video URL
  POST /api/fetch             # Same, with {"url": "..."} body`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (default: from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default: from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.LoadOrDefault()

	// Flags override config
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Stop(ctx)
	}()

	color.Cyan("vidprobe v%s", version.Version)
	fmt.Printf("  Listening:    %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  Rate limit:   %d req/min per client\n", cfg.Limits.RateLimitPerMinute)
	fmt.Printf("  Concurrency:  %d extraction workers\n", cfg.Limits.MaxConcurrent)
	if cfg.Redis.Addr != "" {
		fmt.Printf("  Redis:        %s\n", cfg.Redis.Addr)
	}

	return srv.Start()
}
