package logging

// Scope is a Logger bound to one component, optionally carrying fields
// added to every line.
type Scope struct {
	log       *Logger
	component string
	fields    []Field
}

// Component returns a Scope logging as component. A nil Logger yields a
// Scope that discards everything.
func (l *Logger) Component(component string) *Scope {
	if l == nil {
		l = Nop()
	}
	return &Scope{log: l, component: component}
}

// With returns a Scope that adds fields to every line.
func (s *Scope) With(fields ...Field) *Scope {
	merged := make([]Field, 0, len(s.fields)+len(fields))
	merged = append(merged, s.fields...)
	merged = append(merged, fields...)
	return &Scope{log: s.log, component: s.component, fields: merged}
}

func (s *Scope) all(fields []Field) []Field {
	if len(s.fields) == 0 {
		return fields
	}
	return append(append(make([]Field, 0, len(s.fields)+len(fields)), s.fields...), fields...)
}

func (s *Scope) Debug(msg string, fields ...Field) {
	s.log.log(LevelDebug, s.component, msg, nil, s.all(fields))
}

func (s *Scope) Info(msg string, fields ...Field) {
	s.log.log(LevelInfo, s.component, msg, nil, s.all(fields))
}

func (s *Scope) Warn(msg string, fields ...Field) {
	s.log.log(LevelWarn, s.component, msg, nil, s.all(fields))
}

func (s *Scope) Error(msg string, err error, fields ...Field) {
	s.log.log(LevelError, s.component, msg, err, s.all(fields))
}
