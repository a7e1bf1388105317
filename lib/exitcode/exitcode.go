// Package exitcode exports lspreview's exit status numbers.
package exitcode

const (
	// Success is returned when lspreview finished without error.
	Success = iota
	// UsageError is returned when there was a syntax or usage error in the arguments.
	UsageError
	// UncategorizedError is returned for any error not categorised otherwise,
	// for example when the server couldn't bind its listening address.
	UncategorizedError
)
