package main

import (
	"fmt"
	"time"

	"github.com/Nomadcxx/jellycache/internal/jellyfin"
	"github.com/Nomadcxx/jellycache/internal/ui"
	"github.com/spf13/cobra"
)

func newUpstreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upstream",
		Short: "Check or address the upstream streaming server",
		Long: `Commands for the upstream server configured in upstream.url.

Examples:
  jellycache upstream ping
  jellycache upstream playlist 8f1d2c 'maxVideoBitrate=8000000&videoCodec=h264'`,
	}

	cmd.AddCommand(newUpstreamPingCmd())
	cmd.AddCommand(newUpstreamPlaylistCmd())

	return cmd
}

func upstreamClient() (*jellyfin.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Upstream.URL == "" {
		return nil, fmt.Errorf("upstream.url is not configured")
	}
	return jellyfin.NewClient(jellyfin.Config{URL: cfg.Upstream.URL, Timeout: 5 * time.Second}), nil
}

func newUpstreamPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Report whether the upstream server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := upstreamClient()
			if err != nil {
				return err
			}

			info, err := client.GetPublicInfo(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s unreachable\n", ui.Error("✗"), client.BaseURL())
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s reachable\n", ui.Success("✓"), client.BaseURL())
			ui.Field(out, "Server", info.ServerName)
			ui.Field(out, "Version", info.Version)
			return nil
		},
	}
}

func newUpstreamPlaylistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "playlist <item-id> <url-or-query>",
		Short: "Print the upstream master playlist URL for a quality request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := upstreamClient()
			if err != nil {
				return err
			}
			d := newExtractor().Extract(args[1])
			fmt.Fprintln(cmd.OutOrStdout(), client.MasterPlaylistURL(args[0], d))
			return nil
		},
	}
}
