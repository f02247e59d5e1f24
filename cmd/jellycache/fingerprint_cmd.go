package main

import (
	"fmt"
	"sort"

	"github.com/Nomadcxx/jellycache/internal/metrics"
	"github.com/Nomadcxx/jellycache/internal/quality"
	"github.com/Nomadcxx/jellycache/internal/ui"
	"github.com/spf13/cobra"
)

func newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <url>",
		Short: "Print the cache key of a request URL",
		Long: `Print the 12 character cache key of a playback request URL.

The URL may be a full request URL or only its query component.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newExtractor().Extract(args[0])
			metrics.ObserveFingerprint("cli", quality.Measure(d))
			fmt.Fprintln(cmd.OutOrStdout(), quality.CacheKey(d))
			return nil
		},
	}
}

func newDescribeCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "describe <url>",
		Short: "Show the quality descriptor, key and metrics of a request URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			d := newExtractor().Extract(args[0])
			m := quality.Measure(d)
			metrics.ObserveFingerprint("cli", m)

			ui.Section(out, "Fingerprint")
			ui.Field(out, "Cache key", ui.Key(quality.CacheKey(d)))
			ui.Field(out, "Description", m.Description)
			ui.Field(out, "Score", ui.FormatScore(m.Score))
			ui.Field(out, "Est. size", ui.FormatBytes(m.EstimatedSize))

			if d.Len() == 0 && !showAll {
				return nil
			}

			ui.Section(out, "Attributes")
			tbl := ui.NewTable("ATTRIBUTE", "VALUE", "IN KEY")
			attrs := d.Keys()
			if showAll {
				attrs = quality.Attributes()
				sort.Slice(attrs, func(i, j int) bool { return attrs[i] < attrs[j] })
			}
			for _, a := range attrs {
				v, ok := d.Get(a)
				if !ok {
					v = "-"
				}
				inKey := "yes"
				if a.IsSession() {
					inKey = "no"
				}
				tbl.AddRow(string(a), v, inKey)
			}
			tbl.Render(out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "list absent attributes too")

	return cmd
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <url-a> <url-b>",
		Short: "Check whether two request URLs can share a cached output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			e := newExtractor()
			a, b := e.Extract(args[0]), e.Extract(args[1])

			ui.Field(out, "A", fmt.Sprintf("%s  %s", ui.Key(quality.CacheKey(a)), quality.Describe(a)))
			ui.Field(out, "B", fmt.Sprintf("%s  %s", ui.Key(quality.CacheKey(b)), quality.Describe(b)))

			if quality.Equal(a, b) {
				fmt.Fprintln(out, ui.Success("✓")+" same cache entry")
				return nil
			}

			fmt.Fprintln(out, ui.Warning("≠")+" different cache entries")
			for _, attr := range differingAttributes(a, b) {
				ui.Field(out, string(attr), fmt.Sprintf("%s → %s", valueOrDash(a, attr), valueOrDash(b, attr)))
			}
			return nil
		},
	}
}

// differingAttributes lists the non-session attributes on which a and b
// disagree, sorted by name.
func differingAttributes(a, b quality.Descriptor) []quality.Attribute {
	var diff []quality.Attribute
	for _, attr := range quality.Attributes() {
		if attr.IsSession() {
			continue
		}
		va, okA := a.Get(attr)
		vb, okB := b.Get(attr)
		if okA != okB || va != vb {
			diff = append(diff, attr)
		}
	}
	sort.Slice(diff, func(i, j int) bool { return diff[i] < diff[j] })
	return diff
}

func valueOrDash(d quality.Descriptor, a quality.Attribute) string {
	if v, ok := d.Get(a); ok {
		return v
	}
	return "-"
}
