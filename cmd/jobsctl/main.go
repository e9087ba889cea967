// Command jobsctl inspects and feeds the job postings the dashboard shows.
package main

import (
	"os"
	_ "time/tzdata"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
