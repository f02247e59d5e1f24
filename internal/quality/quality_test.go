package quality

import (
	"testing"
)

func TestAttributeIsSession(t *testing.T) {
	tests := []struct {
		attr Attribute
		want bool
	}{
		{MediaSourceID, true},
		{DeviceID, true},
		{PlaySessionID, true},
		{MaxVideoBitrate, false},
		{AudioStreamIndex, false},
		{SubtitleMethod, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.attr), func(t *testing.T) {
			if got := tt.attr.IsSession(); got != tt.want {
				t.Errorf("%s.IsSession() = %v, want %v", tt.attr, got, tt.want)
			}
		})
	}
}

func TestAttributesVocabulary(t *testing.T) {
	attrs := Attributes()
	if len(attrs) != 26 {
		t.Fatalf("expected 26 attributes, got %d", len(attrs))
	}

	seen := make(map[Attribute]bool)
	for _, a := range attrs {
		if seen[a] {
			t.Errorf("duplicate attribute %s", a)
		}
		seen[a] = true
		if !a.Known() {
			t.Errorf("%s should be known", a)
		}
		if keys := Spellings(a); len(keys) == 0 || keys[0] != string(a) {
			t.Errorf("%s: lower-camel spelling must come first, got %v", a, keys)
		}
	}

	if Attribute("bogus").Known() {
		t.Error("bogus attribute reported as known")
	}
	if Spellings("bogus") != nil {
		t.Error("expected nil spellings for unknown attribute")
	}
}

func TestDescriptorSetKeepsSparse(t *testing.T) {
	d := make(Descriptor)
	d.Set(VideoCodec, "")
	if d.Has(VideoCodec) {
		t.Fatal("empty value must not be stored")
	}
	d.Set(VideoCodec, "h264")
	if v, ok := d.Get(VideoCodec); !ok || v != "h264" {
		t.Fatalf("Get(videoCodec) = %q, %v", v, ok)
	}
}

func TestDescriptorKeysSorted(t *testing.T) {
	d := Descriptor{VideoCodec: "h264", AudioCodec: "aac", MaxWidth: "1920"}
	keys := d.Keys()
	want := []Attribute{AudioCodec, MaxWidth, VideoCodec}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}
}

func TestDescriptorCloneIndependent(t *testing.T) {
	d := Descriptor{VideoCodec: "h264"}
	c := d.Clone()
	c[VideoCodec] = "hevc"
	if d[VideoCodec] != "h264" {
		t.Error("Clone shares storage with the original")
	}
}

func TestDescriptorWithoutSession(t *testing.T) {
	d := Descriptor{VideoCodec: "h264", DeviceID: "a", PlaySessionID: "b", MediaSourceID: "c"}
	got := d.WithoutSession()
	if got.Len() != 1 || !got.Has(VideoCodec) {
		t.Errorf("WithoutSession() = %v", got)
	}
	if d.Len() != 4 {
		t.Error("WithoutSession modified the receiver")
	}
}

func TestFromStrings(t *testing.T) {
	d := FromStrings(map[string]string{
		"videoCodec": "h264",
		"audioCodec": "",
		"nonsense":   "1",
	})
	if d.Len() != 1 || d[VideoCodec] != "h264" {
		t.Errorf("FromStrings() = %v", d)
	}

	round := FromStrings(d.Strings())
	if !Equal(d, round) {
		t.Error("Strings/FromStrings changed the descriptor")
	}
}

func TestDescriptorQueryRoundTrip(t *testing.T) {
	d := Descriptor{MaxWidth: "1920", SubtitleMethod: "Encode", DeviceID: "dev"}
	got := ExtractQuery(d.Query())
	if len(got) != len(d) {
		t.Fatalf("ExtractQuery(Query()) = %v, want %v", got, d)
	}
	for k, v := range d {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
