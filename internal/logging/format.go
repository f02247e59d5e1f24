package logging

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Nomadcxx/jellycache/internal/quality"
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Fingerprint returns the fields identifying a request's variant: its
// cache key, summary and score.
func Fingerprint(d quality.Descriptor) []Field {
	return []Field{
		F("cache_key", quality.CacheKey(d)),
		F("quality", quality.Describe(d)),
		F("score", quality.Score(d)),
	}
}

// formatLine renders one log line:
//
//	2006-01-02T15:04:05Z07:00 [LEVEL] [component] msg | error=... | key=value
func formatLine(t time.Time, level Level, component, msg string, err error, fields []Field) []byte {
	var sb strings.Builder

	sb.WriteString(t.Format(time.RFC3339))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] [")
	sb.WriteString(component)
	sb.WriteString("] ")
	sb.WriteString(msg)

	if err != nil {
		writeField(&sb, "error", err.Error())
	}
	for _, f := range fields {
		writeField(&sb, f.Key, f.Value)
	}

	sb.WriteByte('\n')
	return []byte(sb.String())
}

func writeField(sb *strings.Builder, key string, value interface{}) {
	sb.WriteString(" | ")
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(formatValue(value))
}

// formatValue quotes values that would otherwise be ambiguous in a line:
// request URLs and query values arrive from clients and may carry
// separators, newlines or bytes that are not UTF-8.
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if needsQuoting(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuoting(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if r == '|' || r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}
