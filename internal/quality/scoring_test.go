package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Scenario(t *testing.T) {
	got := Score(Extract(scenarioURL))
	// 8000 (bitrate) + 2073.6 (pixels) + 0 (no audio bitrate)
	assert.InDelta(t, 10073.6, got, 1e-9)
}

func TestScore_Terms(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want float64
	}{
		{"empty", Descriptor{}, 0},
		{"bitrate only", Descriptor{MaxVideoBitrate: "4000000"}, 4000},
		{"audio only", Descriptor{AudioBitrate: "192000"}, 19200},
		{"width without height", Descriptor{MaxWidth: "1920"}, 0},
		{"height without width", Descriptor{MaxHeight: "1080"}, 0},
		{"resolution", Descriptor{MaxWidth: "1280", MaxHeight: "720"}, 921.6},
		{"all terms", Descriptor{MaxVideoBitrate: "1000", MaxWidth: "10", MaxHeight: "100", AudioBitrate: "10"}, 1 + 1 + 1},
		{"session attributes ignored", Descriptor{DeviceID: "123456"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.d), 1e-9)
		})
	}
}

func TestScore_NonNumericTermIsZero(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want float64
	}{
		{"bad bitrate", Descriptor{MaxVideoBitrate: "fast", MaxWidth: "1920", MaxHeight: "1080"}, 2073.6},
		{"bad width", Descriptor{MaxVideoBitrate: "8000000", MaxWidth: "wide", MaxHeight: "1080"}, 8000},
		{"bad audio", Descriptor{MaxVideoBitrate: "8000000", AudioBitrate: "loud"}, 8000},
		{"fractional bitrate", Descriptor{MaxVideoBitrate: "1.5", AudioBitrate: "100"}, 10},
		{"negative bitrate", Descriptor{MaxVideoBitrate: "-8000000", AudioBitrate: "100"}, 10},
		{"everything broken", Descriptor{MaxVideoBitrate: "x", MaxWidth: "y", MaxHeight: "z", AudioBitrate: "w"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.d)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDescriptorInt(t *testing.T) {
	d := Descriptor{MaxWidth: " 1920 ", MaxHeight: "abc"}

	n, ok := d.Int(MaxWidth)
	assert.True(t, ok)
	assert.Equal(t, int64(1920), n)

	_, ok = d.Int(MaxHeight)
	assert.False(t, ok)

	_, ok = d.Int(AudioBitrate)
	assert.False(t, ok)
}

func TestCompare(t *testing.T) {
	hd := Descriptor{MaxWidth: "1920", MaxHeight: "1080"}
	sd := Descriptor{MaxWidth: "720", MaxHeight: "480"}

	assert.Equal(t, 1, Compare(hd, sd))
	assert.Equal(t, -1, Compare(sd, hd))
	assert.Equal(t, 0, Compare(hd, hd.Clone()))
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	low := Descriptor{MaxVideoBitrate: "2000000"}
	high := Descriptor{MaxVideoBitrate: "20000000"}
	mid := Descriptor{MaxVideoBitrate: "8000000"}

	best, ok := Best([]Descriptor{low, high, mid})
	assert.True(t, ok)
	assert.Equal(t, high, best)
}

func TestBest_TieIsOrderIndependent(t *testing.T) {
	a := Descriptor{MaxVideoBitrate: "8000000", VideoCodec: "h264"}
	b := Descriptor{MaxVideoBitrate: "8000000", VideoCodec: "hevc"}

	first, _ := Best([]Descriptor{a, b})
	second, _ := Best([]Descriptor{b, a})
	assert.Equal(t, CacheKey(first), CacheKey(second))
}
