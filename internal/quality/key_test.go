package quality

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{12}$`)

func TestCacheKey_Format(t *testing.T) {
	for _, d := range []Descriptor{{}, Extract(scenarioURL), {VideoCodec: "h264"}} {
		assert.Regexp(t, hexKey, CacheKey(d))
	}
}

func TestCacheKey_Stable(t *testing.T) {
	// sha256 of "[]" (empty canonical form), truncated.
	assert.Equal(t, "4f53cda18c2b", CacheKey(Descriptor{}))
	assert.Equal(t, CacheKey(Extract(scenarioURL)), CacheKey(Extract(scenarioURL)))
}

func TestCacheKey_InsertionOrder(t *testing.T) {
	a := make(Descriptor)
	a.Set(VideoCodec, "h264")
	a.Set(MaxWidth, "1920")
	a.Set(AudioCodec, "aac")
	a.Set(MaxHeight, "1080")

	b := make(Descriptor)
	b.Set(MaxHeight, "1080")
	b.Set(AudioCodec, "aac")
	b.Set(MaxWidth, "1920")
	b.Set(VideoCodec, "h264")

	assert.Equal(t, Canonical(a), Canonical(b))
	assert.Equal(t, CacheKey(a), CacheKey(b))

	// Parameter order in the URL does not matter either.
	assert.Equal(t,
		CacheKey(Extract("?maxWidth=1920&videoCodec=h264")),
		CacheKey(Extract("?videoCodec=h264&maxWidth=1920")))
}

func TestCanonical_ExcludesSession(t *testing.T) {
	d := Descriptor{
		VideoCodec:    "h264",
		DeviceID:      "dev",
		PlaySessionID: "ps",
		MediaSourceID: "ms",
	}
	assert.Equal(t, `[["videoCodec","h264"]]`, string(Canonical(d)))
}

func TestCacheKey_SessionOnlyDifference(t *testing.T) {
	base := Extract(scenarioURL)

	for _, a := range []Attribute{MediaSourceID, DeviceID, PlaySessionID} {
		other := base.Clone()
		other[a] = "something-else"
		assert.Equal(t, CacheKey(base), CacheKey(other), "session attribute %s changed the key", a)
		assert.True(t, Equal(base, other))
	}

	u1 := "?maxVideoBitrate=8000000&videoCodec=h264&DeviceId=abc123"
	u2 := "?maxVideoBitrate=8000000&videoCodec=h264&DeviceId=zzz999"
	assert.True(t, Equal(Extract(u1), Extract(u2)))
}

func TestCacheKey_QualityDifference(t *testing.T) {
	base := Extract(scenarioURL)

	for _, a := range Attributes() {
		if a.IsSession() {
			continue
		}
		t.Run(string(a), func(t *testing.T) {
			changed := base.Clone()
			changed[a] = "changed"
			assert.NotEqual(t, CacheKey(base), CacheKey(changed))
			assert.False(t, Equal(base, changed))
		})
	}

	u1 := "?maxVideoBitrate=8000000&videoCodec=h264"
	u2 := "?maxVideoBitrate=4000000&videoCodec=h264"
	assert.False(t, Equal(Extract(u1), Extract(u2)))
}

func TestCacheKey_PresenceMatters(t *testing.T) {
	// An attribute being absent differs from it carrying any value.
	with := Descriptor{VideoCodec: "h264", AudioCodec: "aac"}
	without := Descriptor{VideoCodec: "h264"}
	assert.NotEqual(t, CacheKey(with), CacheKey(without))
}

func TestCanonical_ValuesCannotCollide(t *testing.T) {
	// Separator characters inside values must not merge pairs.
	a := Descriptor{AudioCodec: `aac","videoCodec":"h264`}
	b := Descriptor{AudioCodec: "aac", VideoCodec: "h264"}
	assert.NotEqual(t, Canonical(a), Canonical(b))
}

func TestCanonical_InvalidUTF8(t *testing.T) {
	ff := Extract("?audioLanguage=%FF")
	fe := Extract("?audioLanguage=%FE")
	replacement := Descriptor{AudioLanguage: "\uFFFD"}

	assert.Equal(t, "\xff", ff[AudioLanguage])
	assert.Equal(t, `[["audioLanguage",{"hex":"ff"}]]`, string(Canonical(ff)))

	assert.NotEqual(t, CacheKey(ff), CacheKey(fe))
	assert.NotEqual(t, CacheKey(ff), CacheKey(replacement))
	assert.False(t, Equal(ff, fe))

	// The hex form of an invalid value cannot be spelled as a plain string.
	spoof := Descriptor{AudioLanguage: `{"hex":"ff"}`}
	assert.NotEqual(t, CacheKey(ff), CacheKey(spoof))

	assert.Equal(t, CacheKey(ff), CacheKey(Extract("?audioLanguage=%ff&DeviceId=x")))
}

func TestEqual_ReflexiveSymmetric(t *testing.T) {
	descriptors := []Descriptor{
		{},
		Extract(scenarioURL),
		{VideoCodec: "hevc", MaxWidth: "3840"},
		{DeviceID: "only-session"},
	}

	for _, a := range descriptors {
		assert.True(t, Equal(a, a))
		for _, b := range descriptors {
			assert.Equal(t, Equal(a, b), Equal(b, a))
		}
	}

	// A descriptor carrying only session data is equivalent to an empty one.
	assert.True(t, Equal(Descriptor{}, Descriptor{DeviceID: "only-session"}))
}
