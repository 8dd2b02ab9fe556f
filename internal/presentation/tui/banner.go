package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"            __                                             _",
	"  _ __ ___ / _|_ __ __ _ _ __ ___   _____      _____  _ __| | __",
	" | '_ ` _ \\| |_| '__/ _` | '_ ` _ \\ / _ \\ \\ /\\ / / _ \\| '__| |/ /",
	" | | | | | |  _| | | (_| | | | | | |  __/\\ V  V / (_) | |  |   <",
	" |_| |_| |_|_| |_|  \\__,_|_| |_| |_|\\___| \\_/\\_/ \\___/|_|  |_|\\_\\",
}

// Teal to blue gradient, one stop per banner line.
var bannerColors = []string{"#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8"}

// PrintBanner writes the mframework ASCII banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
