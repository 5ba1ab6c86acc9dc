package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"

	"dossiers/pkg/errors"
)

var (
	// Messages go to stderr so stdout stays machine readable
	Output io.Writer = os.Stderr

	// Check if output supports colors
	supportsColor = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	// Color functions
	ColorSuccess = colorFunc(ansi.Green)
	ColorError   = colorFunc(ansi.Red)
	ColorWarning = colorFunc(ansi.Yellow)
	ColorInfo    = colorFunc(ansi.Cyan)
	ColorBold    = colorFunc("default+b")
	ColorDim     = colorFunc("default+h")
)

// colorFunc returns a function that colors text if supported
func colorFunc(color string) func(string) string {
	return func(text string) string {
		if supportsColor {
			return ansi.Color(text, color)
		}
		return text
	}
}

// SupportsColor reports whether messages are written to a color terminal
func SupportsColor() bool {
	return supportsColor
}

// ShowError displays a formatted error message with any attached suggestions
func ShowError(err error) {
	message := err.Error()
	var suggestions []string

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message)
		if appErr.Cause != nil {
			message += "\n" + appErr.Cause.Error()
		}
		suggestions = appErr.Suggestions
	}

	fmt.Fprintf(Output, "%s\n", ColorError("ERROR:"))
	for i, line := range strings.Split(message, "\n") {
		if i == 0 {
			fmt.Fprintf(Output, "  %s\n", line)
		} else {
			fmt.Fprintf(Output, "  %s\n", ColorDim(line))
		}
	}

	for _, suggestion := range suggestions {
		fmt.Fprintf(Output, "  %s %s\n", ColorInfo("TIP:"), suggestion)
	}
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", ColorSuccess("SUCCESS:"), message)
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	fmt.Fprintf(Output, "%s %s\n", ColorWarning("WARNING:"), ColorWarning(message))
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	fmt.Fprintf(Output, "%s %s\n", ColorInfo("INFO:"), message)
}
