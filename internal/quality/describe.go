package quality

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// UnknownDescription is returned by Describe when no segment applies.
	UnknownDescription = "Unknown Quality"

	// ReferenceDurationSeconds is the playback length assumed by
	// EstimateSize: two hours.
	ReferenceDurationSeconds = 7200
)

// Metrics is derived, read-only data about a Descriptor.
type Metrics struct {
	Score         float64 `json:"score"`
	Description   string  `json:"description"`
	EstimatedSize int64   `json:"estimatedSize"`
}

// Describe renders d as a short summary such as
// "1920x1080 8Mbps H264 AAC (eng) [Track 2]".
func Describe(d Descriptor) string {
	var parts []string

	width, okW := d.Get(MaxWidth)
	height, okH := d.Get(MaxHeight)
	if okW && okH {
		parts = append(parts, width+"x"+height)
	}

	if bitrate, ok := d.Int(MaxVideoBitrate); ok {
		mbps := math.Round(float64(bitrate) / 1_000_000)
		parts = append(parts, fmt.Sprintf("%.0fMbps", mbps))
	}

	if codec, ok := d.Get(VideoCodec); ok {
		parts = append(parts, upper(codec))
	}

	if codec, ok := d.Get(AudioCodec); ok {
		parts = append(parts, trackSummary(upper(codec), d[AudioLanguage], d[AudioStreamIndex]))
	}

	lang, okLang := d.Get(SubtitleLanguage)
	index, okIndex := d.Get(SubtitleStreamIndex)
	if okLang || okIndex {
		parts = append(parts, trackSummary("Subs", lang, index))
	}

	if len(parts) == 0 {
		return UnknownDescription
	}
	return strings.Join(parts, " ")
}

func trackSummary(label, lang, index string) string {
	var sb strings.Builder
	sb.WriteString(label)
	if lang != "" {
		sb.WriteString(" (")
		sb.WriteString(lang)
		sb.WriteString(")")
	}
	if index != "" {
		sb.WriteString(" [Track ")
		sb.WriteString(index)
		sb.WriteString("]")
	}
	return sb.String()
}

// upper builds a fresh Caser per call; Casers are not safe for
// concurrent use.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// EstimateSize returns a coarse output size in bytes for a playback of
// ReferenceDurationSeconds at the maximum video bitrate. It returns 0 when
// the bitrate is absent or unparseable.
func EstimateSize(d Descriptor) int64 {
	bitrate, ok := d.Int(MaxVideoBitrate)
	if !ok {
		return 0
	}
	if bitrate > math.MaxInt64/ReferenceDurationSeconds {
		return math.MaxInt64
	}
	// (bitrate/1000) kbps * seconds * 1000 / 8 bits per byte
	return bitrate * ReferenceDurationSeconds / 8
}

// Measure computes the Metrics of d.
func Measure(d Descriptor) Metrics {
	return Metrics{
		Score:         Score(d),
		Description:   Describe(d),
		EstimatedSize: EstimateSize(d),
	}
}
