package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for interactive sessions.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Calm teal-to-violet scheme, matching the session tone.
	s1 := termenv.String("            _           _     _     _  __ _   ").Foreground(p.Color("#5eead4"))
	s2 := termenv.String("  _ __ ___ (_)_ __   __| |___| |__ (_)/ _| |_ ").Foreground(p.Color("#67e8f9"))
	s3 := termenv.String(" | '_ ` _ \\| | '_ \\ / _` / __| '_ \\| | |_| __|").Foreground(p.Color("#7dd3fc"))
	s4 := termenv.String(" | | | | | | | | | | (_| \\__ \\ | | | |  _| |_ ").Foreground(p.Color("#a5b4fc"))
	s5 := termenv.String(" |_| |_| |_|_|_| |_|\\__,_|___/_| |_|_|_|  \\__|").Foreground(p.Color("#c4b5fd"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
