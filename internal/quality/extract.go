package quality

import (
	"net/http"
	"net/url"
	"strings"
)

// Observer receives diagnostics from extraction. Implementations must be
// safe for concurrent use.
type Observer interface {
	// MalformedURL is called when raw cannot be parsed. Extraction still
	// returns a defined descriptor.
	MalformedURL(raw string, err error)
}

type nopObserver struct{}

func (nopObserver) MalformedURL(string, error) {}

// NopObserver discards all diagnostics.
var NopObserver Observer = nopObserver{}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(raw string, err error)

// MalformedURL calls f(raw, err).
func (f ObserverFunc) MalformedURL(raw string, err error) {
	f(raw, err)
}

type multiObserver []Observer

func (m multiObserver) MalformedURL(raw string, err error) {
	for _, o := range m {
		o.MalformedURL(raw, err)
	}
}

// Observers fans diagnostics out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

// Extractor builds Descriptors from request URLs. The zero value is ready
// to use and reports nothing.
type Extractor struct {
	Observer Observer
}

// NewExtractor returns an Extractor reporting to obs. A nil obs discards
// diagnostics.
func NewExtractor(obs Observer) *Extractor {
	return &Extractor{Observer: obs}
}

func (e *Extractor) observer() Observer {
	if e == nil || e.Observer == nil {
		return NopObserver
	}
	return e.Observer
}

// Extract parses a request URL, or just its query component, into a
// Descriptor. A URL that cannot be parsed yields an empty Descriptor and
// is reported to the Observer.
func (e *Extractor) Extract(raw string) Descriptor {
	query, err := rawQuery(raw)
	if err != nil {
		e.observer().MalformedURL(raw, err)
		return Descriptor{}
	}
	return e.extractQuery(raw, query)
}

func (e *Extractor) extractQuery(raw, query string) Descriptor {
	values, err := url.ParseQuery(query)
	if err != nil {
		// ParseQuery keeps every well-formed pair; only the broken ones
		// are lost.
		e.observer().MalformedURL(raw, err)
	}
	return ExtractQuery(values)
}

// ExtractRequest extracts the Descriptor of an incoming HTTP request.
func (e *Extractor) ExtractRequest(r *http.Request) Descriptor {
	if r == nil || r.URL == nil {
		return Descriptor{}
	}
	return e.extractQuery(r.URL.String(), r.URL.RawQuery)
}

// Extract parses raw with an Extractor that discards diagnostics.
func Extract(raw string) Descriptor {
	var e Extractor
	return e.Extract(raw)
}

// ExtractQuery builds a Descriptor from already parsed query values.
func ExtractQuery(values url.Values) Descriptor {
	d := make(Descriptor)
	for _, s := range spellings {
		for _, key := range s.keys {
			if v := values.Get(key); v != "" {
				d[s.attr] = v
				break
			}
		}
	}
	return d
}

// rawQuery returns the query component of raw. Input without a '?' whose
// first token is a parameter name is treated as a bare query. A fragment
// never belongs to the query, whichever form raw takes.
func rawQuery(raw string) (string, error) {
	raw, _, _ = strings.Cut(strings.TrimSpace(raw), "#")
	if strings.HasPrefix(raw, "?") {
		return raw[1:], nil
	}
	if isBareQuery(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return u.RawQuery, nil
}

func isBareQuery(raw string) bool {
	if strings.Contains(raw, "?") {
		return false
	}
	eq := strings.IndexByte(raw, '=')
	if eq <= 0 {
		return false
	}
	return !strings.ContainsAny(raw[:eq], "/:")
}
