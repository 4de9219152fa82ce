package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Codemaster.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient color scheme (indigo to rose)
	s1 := termenv.String("                _                          _            ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("   ___ ___   __| | ___ _ __ ___   __ _ ___| |_ ___ _ __ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("  / __/ _ \\ / _` |/ _ \\ '_ ` _ \\ / _` / __| __/ _ \\ '__|").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | (_| (_) | (_| |  __/ | | | | | (_| \\__ \\ ||  __/ |   ").Foreground(p.Color("#e879f9"))
	s5 := termenv.String("  \\___\\___/ \\__,_|\\___|_| |_| |_|\\__,_|___/\\__\\___|_|   ").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
