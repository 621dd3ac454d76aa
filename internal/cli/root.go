package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emrekir/vidprobe/internal/core/config"
	"github.com/emrekir/vidprobe/internal/core/engine"
	"github.com/emrekir/vidprobe/internal/core/i18n"
	"github.com/emrekir/vidprobe/internal/core/media"
	"github.com/emrekir/vidprobe/internal/core/platform"
	"github.com/emrekir/vidprobe/internal/core/version"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:     "vidprobe [url]",
	Short:   "Extract metadata and direct stream URLs from social video links",
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		if err := runProbe(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw normalized result as JSON")
}

func Execute() error {
	return rootCmd.Execute()
}

func runProbe(rawURL string) error {
	cfg := config.LoadOrDefault()
	t := i18n.T(cfg.Language)

	if !config.Exists() {
		color.Yellow("%s. Run 'vidprobe init'.", t.Server.NoConfigWarning)
	}

	p, err := platform.Detect(rawURL)
	if err != nil {
		return fmt.Errorf("%s: %q", t.Errors.InvalidURL, rawURL)
	}
	if p == platform.Unknown {
		return fmt.Errorf("%s", t.Errors.UnsupportedPlatform)
	}

	eng, err := engine.NewYtDlp(cfg.Engine.Binary, cfg.Engine.ScratchDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Limits.DownloadTimeoutSeconds)*time.Second)
	defer cancel()

	result, err := eng.Probe(ctx, rawURL, engine.ProfileFor(p))
	if err != nil {
		return err
	}

	selected, err := media.SelectStream(result.Streams, p)
	if err != nil {
		return fmt.Errorf("%s", t.Errors.NoFormat)
	}

	info := media.Normalize(result.Meta, selected, result.Streams, p)
	return printInfo(&info)
}
