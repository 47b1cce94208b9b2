// Package cli provides shared formatting helpers for CLI output.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color constants.
const (
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	DimCyan = "\033[2;36m"
	Dim     = "\033[2m"
	Bold    = "\033[1m"
	Reset   = "\033[0m"
)

// Box width is the inner content width (between the border characters).
const boxWidth = 40

// Margin is the left indent for all branded output.
const margin = "  "

// ShortenHome replaces $HOME prefix with ~.
func ShortenHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// FormatNumber adds comma separators (1234 -> "1,234").
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return FormatNumber(n/1000) + "," + fmt.Sprintf("%03d", n%1000)
}

// Banner prints the clipvault wordmark and tagline. Used by `clipvault init`.
func Banner(version string) {
	logo := []string{
		"        _ _                       _ _",
		"    ___| (_)_ ____   ____ _ _   _| | |_",
		"   / __| | | '_ \\ \\ / / _` | | | | | __|",
		"  | (__| | | |_) \\ V / (_| | |_| | | |_",
		"   \\___|_|_| .__/ \\_/ \\__,_|\\__,_|_|\\__|",
		"           |_|",
	}
	fmt.Println()
	for _, line := range logo {
		fmt.Printf("%s%s%s\n", Cyan, line, Reset)
	}
	fmt.Println()
	fmt.Printf("  %sclipvault%s %s— web clipping vault keeper v%s%s\n",
		Bold, Reset, Dim, version, Reset)
}

// Header prints a small heavy-border box with a title. Used by
// `clipvault preprocess`.
func Header(title string) {
	fmt.Println()
	heavyTop := margin + "\u250f" + strings.Repeat("\u2501", boxWidth) + "\u2513"
	heavyBottom := margin + "\u2517" + strings.Repeat("\u2501", boxWidth) + "\u251b"

	content := "  " + title
	padded := padRight(content, boxWidth)

	fmt.Printf("%s%s%s\n", Cyan, heavyTop, Reset)
	fmt.Printf("%s%s\u2503%s\u2503%s\n", Cyan, margin, padded, Reset)
	fmt.Printf("%s%s%s\n", Cyan, heavyBottom, Reset)
}

// Section prints a section divider line: ── Name ─────────────────
func Section(name string) {
	prefix := "\u2500\u2500 " + name + " "
	remaining := boxWidth + 2 - runeLen(prefix)
	if remaining < 0 {
		remaining = 0
	}
	rule := prefix + strings.Repeat("\u2500", remaining)
	fmt.Printf("\n%s%s%s%s%s\n\n", margin, Cyan, rule, Reset, "")
}

// Box prints a light-border box around content lines.
func Box(lines []string) {
	lightTop := margin + "\u250c" + strings.Repeat("\u2500", boxWidth) + "\u2510"
	lightBottom := margin + "\u2514" + strings.Repeat("\u2500", boxWidth) + "\u2518"

	fmt.Println()
	fmt.Println(lightTop)
	for _, line := range lines {
		content := "  " + line
		padded := padRight(content, boxWidth)
		fmt.Printf("%s\u2502%s\u2502\n", margin, padded)
	}
	fmt.Println(lightBottom)
}

// Footer prints the branded footer in dim text.
func Footer() {
	fmt.Printf("\n%s%ssgx-labs/clipvault%s\n\n", margin, Dim, Reset)
}

// padRight pads s with spaces to exactly width characters.
// If s is longer than width, it is truncated.
func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		r := []rune(s)
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// runeLen counts the display width in runes.
func runeLen(s string) int {
	return len([]rune(s))
}
