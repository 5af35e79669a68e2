package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTick(_ *TickSnapshot) error  { return nil }
func (n *NoopRecorder) RecordReload(_ *ReloadEvent) error { return nil }
func (n *NoopRecorder) Close() error                      { return nil }
