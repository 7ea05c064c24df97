package commands

// UsageError reports an invalid or conflicting command line. It is always
// returned before any network access.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }
