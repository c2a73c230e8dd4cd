package main

import (
	"fmt"
	"os"
)

// ANSI codes used for terminal output. All status text goes to stderr so
// command output on stdout stays pipeable.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiBold   = "\033[1m"
)

func colorize(code, text string) string {
	if noColor {
		return text
	}
	return code + text + ansiReset
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(ansiGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(ansiRed, "✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(ansiYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(ansiCyan, "→ "+fmt.Sprintf(format, args...)))
}

// printStatus renders an aligned "Label: value" line for status output.
func printStatus(label, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", colorize(ansiBold, label+":"), fmt.Sprintf(format, args...))
}
