package main

import (
	"fmt"
	"io"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func (c *cli) colorize(color, text string) string {
	if c.noColor {
		return text
	}
	return color + text + colorReset
}

func (c *cli) printSuccess(format string, args ...any) {
	fmt.Fprintln(c.errOut, c.colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func (c *cli) printWarning(format string, args ...any) {
	fmt.Fprintln(c.errOut, c.colorize(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func (c *cli) printStatus(w io.Writer, label, format string, args ...any) {
	fmt.Fprintf(w, "  %s %s\n", c.colorize(colorBold, label+":"), fmt.Sprintf(format, args...))
}
