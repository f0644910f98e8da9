// Package ui wraps SUSE/termui plus fatih/color-highlighted fields for
// the resolver and compile driver to narrate what they're doing.
package ui

import (
	"io"
	"os"

	"github.com/SUSE/termui"
	"github.com/fatih/color"
)

// New returns a UI reading from stdin and writing to stdout, for use by
// the CLI.
func New() *termui.UI {
	return termui.New(os.Stdin, os.Stdout, nil)
}

// NewSilent returns a UI writing to an arbitrary writer (or io.Discard),
// for use by library callers that don't want resolver progress on their
// terminal, and by tests.
func NewSilent(w io.Writer) *termui.UI {
	return termui.New(nil, w, nil)
}

// Resolving reports that a coordinate is about to be fetched.
func Resolving(u *termui.UI, coordinate string) {
	u.Printf("%s  %s\n", color.YellowString("resolve:"), color.CyanString(coordinate))
}

// Fetched reports a successful archive download.
func Fetched(u *termui.UI, coordinate string, bytes int) {
	u.Printf("%s   %s %s\n", color.YellowString("fetch:"), color.GreenString(coordinate), color.WhiteString("(%d bytes)", bytes))
}

// Extracting reports that an archive entry is being written to the temp
// directory.
func Extracting(u *termui.UI, entry, dest string) {
	u.Printf("%s %s %s %s\n", color.YellowString("extract:"), color.MagentaString(entry), color.WhiteString("->"), color.MagentaString(dest))
}

// Skipped reports that an entry was recognized as already-extracted or
// runtime-provided and was not re-extracted.
func Skipped(u *termui.UI, entry, reason string) {
	u.Printf("%s  %s %s\n", color.YellowString("skip:"), color.MagentaString(entry), color.WhiteString("(%s)", reason))
}

// Unresolvable reports a package that could not be resolved.
func Unresolvable(u *termui.UI, coordinate string, err error) {
	u.Printf("%s   %s: %s\n", color.RedString("fail:"), color.RedString(coordinate), err.Error())
}

// Done reports overall success of a compile call.
func Done(u *termui.UI) {
	u.Println(color.GreenString("Done."))
}
