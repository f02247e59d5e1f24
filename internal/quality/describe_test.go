package quality

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{"empty", Descriptor{}, "Unknown Quality"},
		{"session only", Descriptor{DeviceID: "abc"}, "Unknown Quality"},
		{"scenario", Extract(scenarioURL), "1920x1080 8Mbps H264 AAC (eng) [Track 2]"},
		{"resolution needs both", Descriptor{MaxWidth: "1920"}, "Unknown Quality"},
		{"bitrate rounds down", Descriptor{MaxVideoBitrate: "8400000"}, "8Mbps"},
		{"bitrate rounds up", Descriptor{MaxVideoBitrate: "8500000"}, "9Mbps"},
		{"low bitrate", Descriptor{MaxVideoBitrate: "400000"}, "0Mbps"},
		{"bad bitrate skipped", Descriptor{MaxVideoBitrate: "fast", VideoCodec: "hevc"}, "HEVC"},
		{"audio codec only", Descriptor{AudioCodec: "eac3"}, "EAC3"},
		{"audio track without language", Descriptor{AudioCodec: "aac", AudioStreamIndex: "1"}, "AAC [Track 1]"},
		{"audio language without codec", Descriptor{AudioLanguage: "eng"}, "Unknown Quality"},
		{"subtitle language", Descriptor{SubtitleLanguage: "fre"}, "Subs (fre)"},
		{"subtitle index", Descriptor{SubtitleStreamIndex: "4"}, "Subs [Track 4]"},
		{
			"full",
			Descriptor{
				MaxWidth: "3840", MaxHeight: "2160", MaxVideoBitrate: "40000000", VideoCodec: "hevc",
				AudioCodec: "truehd", AudioLanguage: "eng", AudioStreamIndex: "1",
				SubtitleLanguage: "ger", SubtitleStreamIndex: "5",
			},
			"3840x2160 40Mbps HEVC TRUEHD (eng) [Track 1] Subs (ger) [Track 5]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.d))
		})
	}
}

func TestEstimateSize(t *testing.T) {
	assert.Equal(t, int64(0), EstimateSize(Descriptor{}))
	assert.Equal(t, int64(0), EstimateSize(Descriptor{MaxVideoBitrate: "lots"}))
	assert.Equal(t, int64(7_200_000_000), EstimateSize(Descriptor{MaxVideoBitrate: "8000000"}))
	assert.Equal(t, int64(math.MaxInt64), EstimateSize(Descriptor{MaxVideoBitrate: "9223372036854775807"}))
}

func TestMeasure_Scenario(t *testing.T) {
	m := Measure(Extract(scenarioURL))

	assert.InDelta(t, 10073.6, m.Score, 1e-9)
	assert.Equal(t, "1920x1080 8Mbps H264 AAC (eng) [Track 2]", m.Description)
	assert.Equal(t, int64(7_200_000_000), m.EstimatedSize)
}

func TestMeasure_Concurrent(t *testing.T) {
	d := Extract(scenarioURL)
	want := Measure(d)
	wantKey := CacheKey(d)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Measure(d))
			assert.Equal(t, wantKey, CacheKey(d))
		}()
	}
	wg.Wait()
}
