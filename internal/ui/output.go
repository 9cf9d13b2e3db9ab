package ui

import "fmt"

// Status symbols. Color never carries state on its own; the symbol does,
// so output stays readable on monochrome terminals and in logs.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Success prefixes msg with the success symbol.
func Success(msg string) string { return SymbolSuccess + " " + msg }

// Successf is Success with formatting.
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error prefixes msg with the error symbol.
func Error(msg string) string { return SymbolError + " " + msg }

// Errorf is Error with formatting.
func Errorf(format string, args ...interface{}) string {
	return Error(fmt.Sprintf(format, args...))
}

// Warning prefixes msg with the warning symbol.
func Warning(msg string) string { return SymbolWarning + " " + msg }

// Warningf is Warning with formatting.
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Header styles a section heading.
func Header(msg string) string { return Bold.Render(msg) }

// FilePath styles a workspace or file path.
func FilePath(path string) string { return Accent.Render(path) }

// Hint styles secondary text such as counts and explanations.
func Hint(msg string) string { return Muted.Render(msg) }
