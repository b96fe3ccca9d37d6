package engine

// testLogger discards everything; engine tests assert on Stats and
// Book state, not on log output.
type testLogger struct{}

func (testLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (testLogger) Errorw(msg string, keysAndValues ...interface{}) {}
