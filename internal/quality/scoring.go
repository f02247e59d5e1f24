package quality

import (
	"strconv"
	"strings"
)

// Score ranks d against other variants; higher is better.
//
//	score = maxVideoBitrate/1000 + maxWidth*maxHeight/1000 + audioBitrate/10
//
// A term whose attributes are absent, non-numeric or negative contributes
// zero. The other terms are unaffected.
func Score(d Descriptor) float64 {
	score := 0.0

	if bitrate, ok := d.Int(MaxVideoBitrate); ok {
		score += float64(bitrate) / 1000
	}

	width, okW := d.Int(MaxWidth)
	height, okH := d.Int(MaxHeight)
	if okW && okH {
		score += float64(width) * float64(height) / 1000
	}

	if audio, ok := d.Int(AudioBitrate); ok {
		score += float64(audio) / 10
	}

	return score
}

// Int parses the value of a as a non-negative integer. It reports false
// when a is absent or its value does not parse.
func (d Descriptor) Int(a Attribute) (int64, bool) {
	v, ok := d[a]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Compare orders a and b by score.
// Returns:
//
//	-1 if a ranks below b
//	 0 if they rank equally
//	+1 if a ranks above b
func Compare(a, b Descriptor) int {
	sa, sb := Score(a), Score(b)
	switch {
	case sa > sb:
		return 1
	case sa < sb:
		return -1
	default:
		return 0
	}
}

// Best returns the highest scoring candidate. Ties go to the candidate with
// the lexicographically smallest cache key so the choice does not depend
// on input order. It reports false when candidates is empty.
func Best(candidates []Descriptor) (Descriptor, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	best := candidates[0]
	bestKey := CacheKey(best)
	for _, c := range candidates[1:] {
		cmp := Compare(c, best)
		if cmp < 0 {
			continue
		}
		key := CacheKey(c)
		if cmp > 0 || key < bestKey {
			best, bestKey = c, key
		}
	}
	return best, true
}
