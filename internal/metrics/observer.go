package metrics

import (
	"github.com/Nomadcxx/jellycache/internal/quality"
)

// extractObserver implements quality.Observer by counting failures.
type extractObserver struct{}

// NewExtractObserver returns an observer that counts malformed URLs.
func NewExtractObserver() quality.Observer {
	return extractObserver{}
}

func (extractObserver) MalformedURL(string, error) {
	ExtractFailuresTotal.Inc()
}

// ObserveFingerprint records the metrics of one fingerprinted request.
func ObserveFingerprint(source string, m quality.Metrics) {
	FingerprintsTotal.WithLabelValues(source).Inc()
	VariantScore.Observe(m.Score)
	if m.EstimatedSize > 0 {
		VariantEstimatedBytes.Observe(float64(m.EstimatedSize))
	}
}

// ObserveRecord records the outcome of a registry write.
func ObserveRecord(err error) {
	if err != nil {
		VariantsRecordedTotal.WithLabelValues("error").Inc()
		return
	}
	VariantsRecordedTotal.WithLabelValues("ok").Inc()
}
