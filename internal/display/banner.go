package display

import (
	"fmt"
	"os"

	"github.com/backmassage/upreel/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` _   _       ____           _
| | | |_ __ |  _ \ ___  ___| |
| | | | '_ \| |_) / _ \/ _ \ |
| |_| | |_) |  _ <  __/  __/ |
 \___/| .__/|_| \_\___|\___|_|
      |_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
