// Command speakeralign runs the speaker-attributed transcription service
// and exposes the aligner for offline use.
package main

import (
	"fmt"
	"os"
)

const serviceName = "speakeralign"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
