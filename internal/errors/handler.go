package apperrors

import (
	"errors"
	"fmt"
	"io"
)

// ColorProvider supplies the escape sequences used when reporting errors.
// A nil ColorProvider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleCalculationError reports err on out and returns the matching exit code.
//
// Parameters:
//   - err: The error to report (nil reports nothing).
//   - out: The writer for the error message.
//   - colors: Optional color provider.
//
// Returns:
//   - int: The exit code for err.
func HandleCalculationError(err error, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). %v%s\n", red, err, reset)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled by user.%s\n", yellow, reset)
	case ExitErrorConfig:
		var valErr ValidationError
		if errors.As(err, &valErr) {
			fmt.Fprintf(out, "%sInvalid input: %s%s\n", red, valErr.Message, reset)
		} else {
			fmt.Fprintf(out, "%sConfiguration error: %v%s\n", red, err, reset)
		}
	case ExitErrorInvariant:
		fmt.Fprintf(out, "%sInternal error: %v%s\n", red, err, reset)
	default:
		fmt.Fprintf(out, "%sError: %v%s\n", red, err, reset)
	}
	return code
}
