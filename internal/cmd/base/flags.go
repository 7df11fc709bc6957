package base

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"
)

// FlagSet wraps flag.FlagSet to render help text for commands.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are reported by the command through its
// UI, so the flag package's own output is discarded.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help returns the options section of a command's help text.
func (f *FlagSet) Help() string {
	var out bytes.Buffer

	fmt.Fprintf(&out, "\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&out, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&out, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&out, "\n      %s\n", fl.Usage)
	})

	return strings.TrimRight(out.String(), "\n")
}
