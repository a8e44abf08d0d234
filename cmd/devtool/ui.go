package main

import "fmt"

// ANSI escape codes for terminal output
const (
	ansiGreen  = "\033[0;32m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[1;33m"
	ansiCyan   = "\033[0;36m"
	ansiReset  = "\033[0m"
)

func PrintHeader(title string) {
	fmt.Printf("\n%s== %s ==%s\n", ansiYellow, title, ansiReset)
}

func PrintInfo(format string, a ...interface{}) {
	fmt.Printf("%s> %s%s\n", ansiCyan, fmt.Sprintf(format, a...), ansiReset)
}

func PrintSuccess(format string, a ...interface{}) {
	fmt.Printf("%sOK: %s%s\n", ansiGreen, fmt.Sprintf(format, a...), ansiReset)
}

func PrintError(format string, a ...interface{}) {
	fmt.Printf("%sFAIL: %s%s\n", ansiRed, fmt.Sprintf(format, a...), ansiReset)
}
