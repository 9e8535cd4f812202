package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

const version string = "0.1.0"

type subcommand struct {
	name     string
	function func(args []string)
	blurb    string
}

// SubCommands lists every runnable subcommand. Registering here is all a new
// subcommand needs to show up in the usage text and the dispatcher.
var SubCommands = []*subcommand{
	{"count", runCount, "count tag occurrences per sample from fastq"},
	{"merge", runMerge, "merge per-directory gzipped fastq chunks"},
}

func usage() {
	s := new(strings.Builder)
	s.WriteString(
		"Program: tagcount (per-sample gene tag counting from sequencing reads)\n" +
			"Version: " + version + "\n" +
			"\nUsage:\ttagcount <command> [options]\n\n" +
			"Commands:\n")

	// tabwriter keeps the name/blurb columns aligned
	w := tabwriter.NewWriter(s, 0, 8, 5, '\t', tabwriter.AlignRight)
	for i := range SubCommands {
		fmt.Fprintf(w, "\t%s\t%s\n", SubCommands[i].name, SubCommands[i].blurb)
	}
	w.Flush()
	fmt.Print(s.String())
}

func main() {
	flag.Usage = usage
	flag.Parse()

	for i := range SubCommands {
		if SubCommands[i].name == flag.Arg(0) {
			SubCommands[i].function(flag.Args()[1:])
			return
		}
	}

	// unknown or missing subcommand
	flag.Usage()
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
