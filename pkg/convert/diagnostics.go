package convert

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Diagnostic is one warning or error recorded during conversion.
type Diagnostic struct {
	Level   zapcore.Level
	Message string
	Fields  map[string]any
	// Err carries the category (see ErrDataDefect) and the object involved.
	Err *Error
}

// String renders the diagnostic as a single log line.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Level.CapitalString())
	b.WriteString(" ")
	b.WriteString(d.Message)

	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, d.Fields[k])
	}
	return b.String()
}

// Diagnostics collects the non-fatal problems of one conversion. Every entry
// is also written to the conversion's logger.
type Diagnostics struct {
	log     *zap.Logger
	entries []Diagnostic
}

func newDiagnostics(log *zap.Logger) *Diagnostics {
	return &Diagnostics{log: log}
}

// Entries returns the recorded diagnostics in the order they occurred.
func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.entries
}

// Count returns the number of entries at the given level.
func (d *Diagnostics) Count(level zapcore.Level) int {
	n := 0
	for _, e := range d.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any entry's message contains substr.
func (d *Diagnostics) Contains(substr string) bool {
	for _, e := range d.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// String returns the human-readable log, one entry per line.
func (d *Diagnostics) String() string {
	lines := make([]string, 0, len(d.Entries()))
	for _, e := range d.Entries() {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}

// warn records a data defect at warning level.
func (d *Diagnostics) warn(op string, id uint64, msg string, fields ...zap.Field) {
	d.record(zapcore.WarnLevel, op, id, msg, fields)
}

// fail records a data defect at error level. Conversion still continues.
func (d *Diagnostics) fail(op string, id uint64, msg string, fields ...zap.Field) {
	d.record(zapcore.ErrorLevel, op, id, msg, fields)
}

// debug only logs.
func (d *Diagnostics) debug(msg string, fields ...zap.Field) {
	d.log.Debug(msg, fields...)
}

func (d *Diagnostics) record(level zapcore.Level, op string, id uint64, msg string, fields []zap.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	d.entries = append(d.entries, Diagnostic{
		Level:   level,
		Message: msg,
		Fields:  enc.Fields,
		Err: &Error{
			Category: ErrDataDefect,
			Op:       op,
			ObjectID: id,
			Msg:      msg,
		},
	})

	if ce := d.log.Check(level, msg); ce != nil {
		ce.Write(append(fields, zap.String("op", op), zap.Uint64("object_id", id))...)
	}
}
