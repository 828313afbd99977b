package apm

// emptyTraceProvider is a no-op backend used when tracing is disabled.
type emptyTraceProvider struct{}

// NewEmptyTraceProvider returns a provider that exports nothing.
func NewEmptyTraceProvider() TraceProvider {
	return emptyTraceProvider{}
}

func (emptyTraceProvider) Stop() error {
	return nil
}
