package cli

import (
	"fmt"
	"io"
)

const banner = `  ___  ___  _    _ _       ____     _ ___  ___  _  _ _
 / __|/ _ \| |  (_) |_ ___|__ / ___ | / __|/ _ \| \| | |
 \__ \ (_) | |__| |  _/ -_)|_ \|___|| \__ \ (_) | .' | |__
 |___/\__\_\____|_|\__\___|___/    \__/___/\___/|_|\_|____|
`

// PrintBanner prints the program title to the given writer.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, banner)
	fmt.Fprintf(w, " sqlite2jsonl %s\n\n", version)
}
