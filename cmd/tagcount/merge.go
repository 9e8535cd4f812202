package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tagseq/tagcount/merge"
	"github.com/vertgenlab/gonomics/exception"
)

func mergeUsage(mergeFlags *flag.FlagSet) {
	fmt.Print(
		"merge - Merge per-directory gzipped fastq chunks into one fastq.gz per directory\n\n" +
			"Usage:\n" +
			"  tagcount merge [options] run1/ run2/ ...\n\n" +
			"The merged file is named after the directory, so directory names should\n" +
			"carry the sample token expected by tagcount count.\n\n" +
			"Options:\n")
	mergeFlags.PrintDefaults()
}

func runMerge(args []string) {
	var err error
	mergeFlags := flag.NewFlagSet("merge", flag.ExitOnError)

	outDir := mergeFlags.String("o", ".", "Output directory for merged fastq files.")

	err = mergeFlags.Parse(args)
	exception.PanicOnErr(err)
	mergeFlags.Usage = func() { mergeUsage(mergeFlags) }

	if mergeFlags.NArg() == 0 {
		mergeFlags.Usage()
		errExit("\nERROR: must input at least one directory")
	}

	for _, dir := range mergeFlags.Args() {
		out, err := merge.Dir(dir, *outDir)
		if err != nil {
			log.Fatalf("ERROR: %v\n", err)
		}
		log.Printf("merged %s -> %s\n", dir, out)
	}
}
