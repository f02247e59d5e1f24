package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "unknown", FormatBytes(0))
	assert.Equal(t, "7.2 GB", FormatBytes(7_200_000_000))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "10,073.6", FormatScore(10073.6))
}

func TestTableRender(t *testing.T) {
	DisableColors()

	tbl := NewTable("KEY", "DESCRIPTION")
	tbl.AddRow("abc", "1920x1080 8Mbps")
	tbl.AddRow("defghij")

	var buf bytes.Buffer
	tbl.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"KEY      DESCRIPTION",
		"-------  ---------------",
		"abc      1920x1080 8Mbps",
		"defghij",
	}, lines)
	assert.Equal(t, 2, tbl.Len())
}

func TestTableRender_NonASCIIWidths(t *testing.T) {
	DisableColors()

	tbl := NewTable("ATTRIBUTE", "CHANGE", "N")
	tbl.AddRow("audioLanguage", "eng → spa", "1")
	tbl.AddRow("subtitleLanguage", "español", "2")

	var buf bytes.Buffer
	tbl.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"ATTRIBUTE         CHANGE     N",
		"----------------  ---------  -",
		"audioLanguage     eng → spa  1",
		"subtitleLanguage  español    2",
	}, lines)
}

func TestSectionPlain(t *testing.T) {
	DisableColors()

	var buf bytes.Buffer
	Section(&buf, "fingerprint")
	assert.Equal(t, "\nFINGERPRINT\n=================\n", buf.String())
}
