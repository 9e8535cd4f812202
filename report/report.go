// Package report renders run diagnostics: per-sample tallies, a terminal
// plot of resolution rates, and an optional PNG bar chart of reads per
// sample. Diagnostics never alter counts or the CSV report.
package report

import (
	"fmt"
	"log"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/tagseq/tagcount/demux"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Log writes one tally line per sample, sorted by sample name.
func Log(stats []demux.Stats) {
	lines := make([]string, 0, len(stats))
	for i := range stats {
		lines = append(lines, fmt.Sprintf("%s\t%d\t%d\t%d", stats[i].Sample, stats[i].Reads, stats[i].Resolved, stats[i].Ambiguous))
	}
	slices.Sort(lines)
	log.Println("Sample\tReads\tResolved\tAmbiguous")
	log.Println(strings.Join(lines, "\n"))
}

// PlotRates returns a terminal plot of percent-resolved per sample, ordered
// by sample name, followed by the mean and standard deviation across samples.
func PlotRates(stats []demux.Stats) string {
	if len(stats) == 0 {
		return "no samples processed\n"
	}
	sorted := make([]demux.Stats, len(stats))
	copy(sorted, stats)
	slices.SortFunc(sorted, func(a, b demux.Stats) int {
		return strings.Compare(a.Sample, b.Sample)
	})
	rates := make([]float64, len(sorted))
	for i := range sorted {
		rates[i] = sorted[i].Rate()
	}
	s := new(strings.Builder)
	s.WriteString(asciigraph.Plot(rates,
		asciigraph.Height(5),
		asciigraph.Precision(0),
		asciigraph.Caption("% reads resolved per sample")))
	sd := 0.0
	if len(rates) > 1 {
		sd = stat.StdDev(rates, nil)
	}
	fmt.Fprintf(s, "\nmean %.1f%% sd %.1f%% across %d samples\n",
		stat.Mean(rates, nil), sd, len(rates))
	return s.String()
}

// SavePng writes a bar chart of total reads per sample to file.
func SavePng(stats []demux.Stats, file string) error {
	sorted := make([]demux.Stats, len(stats))
	copy(sorted, stats)
	slices.SortFunc(sorted, func(a, b demux.Stats) int {
		return strings.Compare(a.Sample, b.Sample)
	})

	vals := make(plotter.Values, len(sorted))
	names := make([]string, len(sorted))
	for i := range sorted {
		vals[i] = float64(sorted[i].Reads)
		names[i] = sorted[i].Sample
	}

	p := plot.New()
	p.Title.Text = "Reads per sample"
	p.Y.Label.Text = "Reads"
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(names...)
	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
