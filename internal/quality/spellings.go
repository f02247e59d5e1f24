package quality

// spelling lists the query parameter names accepted for an attribute, in
// lookup priority. The first parameter with a non-empty value wins.
type spelling struct {
	attr Attribute
	keys []string
}

// spellings is the extraction vocabulary. Accepting a new parameter name
// is an entry change here, nothing else.
var spellings = []spelling{
	// Video
	{MaxVideoBitrate, []string{"maxVideoBitrate", "MaxVideoBitrate"}},
	{VideoCodec, []string{"videoCodec", "VideoCodec"}},
	{MaxWidth, []string{"maxWidth", "MaxWidth"}},
	{MaxHeight, []string{"maxHeight", "MaxHeight"}},
	{Level, []string{"level", "Level"}},
	{Profile, []string{"profile", "Profile"}},
	{MaxFramerate, []string{"maxFramerate", "MaxFramerate"}},
	{VideoBitDepth, []string{"videoBitDepth", "VideoBitDepth"}},

	// Audio
	{AudioCodec, []string{"audioCodec", "AudioCodec"}},
	{AudioChannels, []string{"audioChannels", "AudioChannels"}},
	{AudioBitrate, []string{"audioBitrate", "AudioBitrate"}},
	{AudioSampleRate, []string{"audioSampleRate", "AudioSampleRate"}},

	// Container
	{Container, []string{"container", "Container"}},
	{SegmentContainer, []string{"segmentContainer", "SegmentContainer"}},

	// Subtitle
	{SubtitleCodec, []string{"subtitleCodec", "SubtitleCodec"}},

	// Stream selection: lower-camel only
	{AudioStreamIndex, []string{"audioStreamIndex"}},
	{SubtitleStreamIndex, []string{"subtitleStreamIndex"}},
	{AudioLanguage, []string{"audioLanguage"}},
	{SubtitleLanguage, []string{"subtitleLanguage"}},
	{MaxAudioChannels, []string{"maxAudioChannels"}},
	{TranscodingMaxAudioChannels, []string{"transcodingMaxAudioChannels"}},
	{SubtitleMethod, []string{"subtitleMethod"}},
	{StartTimeTicks, []string{"startTimeTicks"}},

	// Session
	{MediaSourceID, []string{"mediaSourceId", "MediaSourceId"}},
	{DeviceID, []string{"deviceId", "DeviceId"}},
	{PlaySessionID, []string{"playSessionId", "PlaySessionId"}},
}

var known = func() map[Attribute]bool {
	m := make(map[Attribute]bool, len(spellings))
	for _, s := range spellings {
		m[s.attr] = true
	}
	return m
}()

// Known reports whether a belongs to the extraction vocabulary.
func (a Attribute) Known() bool {
	return known[a]
}

// Attributes returns every attribute of the vocabulary in lookup order.
func Attributes() []Attribute {
	out := make([]Attribute, len(spellings))
	for i, s := range spellings {
		out[i] = s.attr
	}
	return out
}

// Spellings returns the accepted query parameter names for a, in priority
// order. It returns nil for attributes outside the vocabulary.
func Spellings(a Attribute) []string {
	for _, s := range spellings {
		if s.attr == a {
			return append([]string(nil), s.keys...)
		}
	}
	return nil
}
