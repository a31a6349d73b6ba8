package exitcode

// Process exit codes of the caremix CLI.
const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	StoreError      = 4
	ClassifyError   = 5
	PartialSuccess  = 6
	ServeError      = 7
)
