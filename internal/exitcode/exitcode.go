package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	CopyError       = 4
	ConvertError    = 5
	PartialSuccess  = 6
	NoMatch         = 7
	MigrationError  = 8
)

// ForPhase maps a load pipeline phase, or "migrate", to the process exit
// code.
func ForPhase(phase string) int {
	switch phase {
	case "migrate":
		return MigrationError
	case "preflight":
		return ValidationError
	case "stage":
		return CopyError
	default:
		return ConvertError
	}
}
