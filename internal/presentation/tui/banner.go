package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{` __      __              __ _           _`, "#818cf8"},
	{` \ \    / /_ _ _  _ ___ / _(_)_ _  __| |___ _ _`, "#a78bfa"},
	{`  \ \/\/ / _' | || |___|  _| | ' \/ _' / -_) '_|`, "#c084fc"},
	{`   \_/\_/\__,_|\_, |   |_| |_|_||_\__,_\___|_|`, "#f472b6"},
	{`               |__/`, "#fb7185"},
}

// PrintBanner writes the Wayfinder ASCII art banner followed by version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(p.Color(line.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
