package main

import (
	"fmt"
	"os"

	"github.com/Nomadcxx/jellycache/internal/config"
	"github.com/Nomadcxx/jellycache/internal/logging"
	"github.com/Nomadcxx/jellycache/internal/metrics"
	"github.com/Nomadcxx/jellycache/internal/quality"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jellycache",
		Short: "Quality fingerprinting for a transcoding cache proxy",
		Long: `jellycache derives stable cache keys from streaming playback URLs.

Two requests share a transcoded output exactly when every quality parameter
matches; session identifiers (device, play session, media source) are
ignored.

Examples:
  jellycache key 'http://proxy/Videos/1/master.m3u8?maxWidth=1920&videoCodec=h264'
  jellycache describe 'maxVideoBitrate=8000000&maxWidth=1920&maxHeight=1080'
  jellycache compare '<url-a>' '<url-b>'
  jellycache serve --addr :8787`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/jellycache/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log extraction diagnostics to stderr")

	rootCmd.AddCommand(newKeyCmd())
	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVariantsCmd())
	rootCmd.AddCommand(newUpstreamCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

// newExtractor returns the extractor used by one-shot commands. Malformed
// URLs are counted, and with --verbose also logged to stderr.
func newExtractor() *quality.Extractor {
	obs := []quality.Observer{metrics.NewExtractObserver()}
	if verbose {
		obs = append(obs, logging.NewQualityObserver(logging.NewWriter(os.Stderr, logging.LevelDebug)))
	}
	return quality.NewExtractor(quality.Observers(obs...))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jellycache %s\n", version)
		},
	}
}
