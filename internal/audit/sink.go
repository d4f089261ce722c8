package audit

import "context"

// Sink records activity events.  Implementations are strictly best-effort:
// Record must never fail the caller's primary operation, so it returns
// nothing and implementations log delivery problems themselves.  Callers
// may invoke Record concurrently.
type Sink interface {
    Record(ctx context.Context, kind, actor, detail string)
}

// NopSink discards every event.  Used in tests and when no broker is
// configured.
type NopSink struct{}

// Record implements Sink.
func (NopSink) Record(context.Context, string, string, string) {}
