package logging

import (
	"github.com/Nomadcxx/jellycache/internal/quality"
)

// QualityObserver reports extraction diagnostics through a Logger.
type QualityObserver struct {
	log *Scope
}

// NewQualityObserver returns a quality.Observer backed by l. A nil l
// discards diagnostics.
func NewQualityObserver(l *Logger) *QualityObserver {
	return &QualityObserver{log: l.Component("quality")}
}

// MalformedURL implements quality.Observer.
func (o *QualityObserver) MalformedURL(raw string, err error) {
	o.log.Debug("malformed request url",
		F("url", raw),
		F("error", err),
	)
}

var _ quality.Observer = (*QualityObserver)(nil)
