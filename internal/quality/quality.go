// Package quality derives stable fingerprints from transcoding requests.
// It extracts the encoding parameters of a playback URL into a sparse
// Descriptor, hashes the parameters that affect output bytes into a cache
// key, and provides scoring and human-readable summaries for selecting
// between variants.
package quality

import (
	"net/url"
	"sort"
)

// Attribute names a single entry in a Descriptor. Names use the
// lower-camel spelling of the upstream streaming protocol.
type Attribute string

// Video attributes.
const (
	MaxVideoBitrate Attribute = "maxVideoBitrate"
	VideoCodec      Attribute = "videoCodec"
	MaxWidth        Attribute = "maxWidth"
	MaxHeight       Attribute = "maxHeight"
	Level           Attribute = "level"
	Profile         Attribute = "profile"
	MaxFramerate    Attribute = "maxFramerate"
	VideoBitDepth   Attribute = "videoBitDepth"
)

// Audio attributes.
const (
	AudioCodec      Attribute = "audioCodec"
	AudioChannels   Attribute = "audioChannels"
	AudioBitrate    Attribute = "audioBitrate"
	AudioSampleRate Attribute = "audioSampleRate"
)

// Container and subtitle attributes.
const (
	Container        Attribute = "container"
	SegmentContainer Attribute = "segmentContainer"
	SubtitleCodec    Attribute = "subtitleCodec"
)

// Stream selection attributes. These change the produced output and are
// part of the cache key.
const (
	AudioStreamIndex            Attribute = "audioStreamIndex"
	SubtitleStreamIndex         Attribute = "subtitleStreamIndex"
	AudioLanguage               Attribute = "audioLanguage"
	SubtitleLanguage            Attribute = "subtitleLanguage"
	MaxAudioChannels            Attribute = "maxAudioChannels"
	TranscodingMaxAudioChannels Attribute = "transcodingMaxAudioChannels"
	SubtitleMethod              Attribute = "subtitleMethod"
	StartTimeTicks              Attribute = "startTimeTicks"
)

// Session attributes identify a playback session. They are kept in the
// Descriptor for observability but never reach the cache key.
const (
	MediaSourceID Attribute = "mediaSourceId"
	DeviceID      Attribute = "deviceId"
	PlaySessionID Attribute = "playSessionId"
)

// IsSession reports whether a is a session-only attribute.
func (a Attribute) IsSession() bool {
	switch a {
	case MediaSourceID, DeviceID, PlaySessionID:
		return true
	default:
		return false
	}
}

// Descriptor is the sparse set of quality parameters of one request.
// An attribute is present only if the request carried a non-empty value
// for it; absent attributes have no entry.
type Descriptor map[Attribute]string

// Get returns the value of a and whether it is present.
func (d Descriptor) Get(a Attribute) (string, bool) {
	v, ok := d[a]
	return v, ok
}

// Has reports whether a is present.
func (d Descriptor) Has(a Attribute) bool {
	_, ok := d[a]
	return ok
}

// Set stores value under a. Empty values are ignored so the descriptor
// stays sparse.
func (d Descriptor) Set(a Attribute, value string) {
	if value == "" {
		return
	}
	d[a] = value
}

// Len returns the number of present attributes.
func (d Descriptor) Len() int {
	return len(d)
}

// Keys returns the present attribute names in lexicographic order.
func (d Descriptor) Keys() []Attribute {
	keys := make([]Attribute, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns an independent copy of d.
func (d Descriptor) Clone() Descriptor {
	out := make(Descriptor, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// WithoutSession returns a copy of d with the session attributes removed.
func (d Descriptor) WithoutSession() Descriptor {
	out := make(Descriptor, len(d))
	for k, v := range d {
		if k.IsSession() {
			continue
		}
		out[k] = v
	}
	return out
}

// Strings converts d into a plain string map, e.g. for JSON output.
func (d Descriptor) Strings() map[string]string {
	out := make(map[string]string, len(d))
	for k, v := range d {
		out[string(k)] = v
	}
	return out
}

// FromStrings builds a Descriptor from a plain string map. Unknown names
// and empty values are dropped.
func FromStrings(m map[string]string) Descriptor {
	d := make(Descriptor, len(m))
	for k, v := range m {
		a := Attribute(k)
		if !a.Known() {
			continue
		}
		d.Set(a, v)
	}
	return d
}

// Query encodes d as query parameters using the lower-camel spellings.
// Extracting the result yields d again.
func (d Descriptor) Query() url.Values {
	q := make(url.Values, len(d))
	for k, v := range d {
		q.Set(string(k), v)
	}
	return q
}
