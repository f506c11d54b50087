// Package buildinfo holds version data injected at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/skdtracker/internal/buildinfo.Version=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = ""
	Date    = ""
	Commit  = ""
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes version, date and commit to w, using "N/A" for
// values that were not set.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(Date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(Commit))
}
