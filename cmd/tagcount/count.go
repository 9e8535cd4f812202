package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tagseq/tagcount/count"
	"github.com/tagseq/tagcount/demux"
	"github.com/tagseq/tagcount/reference"
	"github.com/tagseq/tagcount/report"
	"github.com/tagseq/tagcount/tag"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

func countUsage(countFlags *flag.FlagSet) {
	fmt.Print(
		"count - Count gene tag occurrences per sample from fastq reads\n\n" +
			"Usage:\n" +
			"  tagcount count [options] -t tags.csv sample1.fastq.gz sample2.fastq.gz ...\n\n" +
			"Each fastq file is one sample; the sample name is the file name up to and\n" +
			"including the trailing digits before the extension.\n\n" +
			"Options:\n")
	countFlags.PrintDefaults()
}

func runCount(args []string) {
	var err error
	countFlags := flag.NewFlagSet("count", flag.ExitOnError)

	table := countFlags.String("t", "", "Tag table as a .csv file with a gene id column (gene id/gene_id) and a tag column (tag/barcode). May be gzipped.")
	output := countFlags.String("o", "stdout", "Output count table (CSV).")
	fivePSeq := countFlags.String("5p", tag.DefaultFivePrimeContext, "Sequence immediately 5' of the tag. Only the last 5 bases anchor the search.")
	threePSeq := countFlags.String("3p", tag.DefaultThreePrimeContext, "Sequence immediately 3' of the tag. Only the first 5 bases anchor the search.")
	byTag := countFlags.Bool("bytag", false, "Report one row per tag instead of summing counts per gene.")
	ignoreMissingTag := countFlags.Bool("ignore-missing-tag", false, "Skip tag table rows with an empty tag field instead of failing.")
	noMatchFile := countFlags.String("nomatch", "", "Output fastq file for reads that did not resolve to a single tag. May be gzipped.")
	plotFile := countFlags.String("plot", "", "Output PNG bar chart of reads per sample.")
	verbose := countFlags.Bool("v", false, "Print a per-sample resolution rate plot to stderr.")

	err = countFlags.Parse(args)
	exception.PanicOnErr(err)
	countFlags.Usage = func() { countUsage(countFlags) }

	if *table == "" {
		countFlags.Usage()
		errExit("\nERROR: must input a tag table with -t")
	}
	if countFlags.NArg() == 0 {
		countFlags.Usage()
		errExit("\nERROR: must input at least one fastq file")
	}

	anchors, err := tag.NewAnchors(*fivePSeq, *threePSeq)
	if err != nil {
		log.Fatalf("ERROR: %v\n", err)
	}
	ref, err := reference.Read(*table, *ignoreMissingTag)
	if err != nil {
		log.Fatalf("ERROR: %v\n", err)
	}

	mat, stats, err := demux.Run(countFlags.Args(), ref, anchors, *noMatchFile)
	if err != nil {
		log.Fatalf("ERROR: %v\n", err)
	}

	out := fileio.EasyCreate(*output)
	err = count.WriteReport(out, mat, ref, *byTag)
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)

	report.Log(stats)
	if *verbose {
		fmt.Fprintln(os.Stderr, report.PlotRates(stats))
	}
	if *plotFile != "" {
		err = report.SavePng(stats, *plotFile)
		exception.PanicOnErr(err)
	}
}
