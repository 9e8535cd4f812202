// Package count accumulates the per-tag, per-sample count matrix and renders
// it as a CSV report.
package count

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// NoMatch is the synthetic row collecting all reads that could not be
// resolved to exactly one known tag.
const NoMatch string = "no_match"

// Matrix maps lowercase tag key (or NoMatch) to per-sample read counts.
// Samples are registered explicitly so that a sample with zero resolved
// reads still gets a column of zeros.
type Matrix struct {
	counts  map[string]map[string]int
	samples map[string]bool
}

func NewMatrix() *Matrix {
	return &Matrix{
		counts:  make(map[string]map[string]int),
		samples: make(map[string]bool),
	}
}

// AddSample registers a sample column.
func (m *Matrix) AddSample(sample string) {
	m.samples[sample] = true
}

// Inc adds one read to counts[key][sample].
func (m *Matrix) Inc(key, sample string) {
	m.samples[sample] = true
	if m.counts[key] == nil {
		m.counts[key] = make(map[string]int)
	}
	m.counts[key][sample]++
}

// Get returns counts[key][sample], zero when the cell was never incremented.
func (m *Matrix) Get(key, sample string) int {
	return m.counts[key][sample]
}

// Samples returns all registered samples in ascending order.
func (m *Matrix) Samples() []string {
	samples := make([]string, 0, len(m.samples))
	for s := range m.samples {
		samples = append(samples, s)
	}
	slices.Sort(samples)
	return samples
}

// Keys returns all tag keys with at least one count, NoMatch excluded,
// in ascending order.
func (m *Matrix) Keys() []string {
	keys := make([]string, 0, len(m.counts))
	for k := range m.counts {
		if k == NoMatch {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type row struct {
	barcode string
	gene    string
	counts  []int
}

// WriteReport renders the matrix as CSV: header "barcode,gene,<samples...>",
// a NoMatch row (empty gene) always first, then one row per tag in ascending
// order of the barcode column. When byTag is false (the default) counts are
// summed per gene, with the barcode column showing the gene's smallest tag
// key. Grouping is a pure transform over the per-tag matrix, so the same
// matrix can be reported both ways.
func WriteReport(out io.Writer, m *Matrix, ref map[string]string, byTag bool) error {
	samples := m.Samples()

	rows := make([]row, 0, len(m.counts))
	for _, key := range m.Keys() {
		r := row{barcode: key, gene: ref[key], counts: make([]int, len(samples))}
		for i := range samples {
			r.counts[i] = m.Get(key, samples[i])
		}
		rows = append(rows, r)
	}
	if !byTag {
		rows = groupByGene(rows)
	}
	slices.SortFunc(rows, func(a, b row) int {
		return strings.Compare(a.barcode, b.barcode)
	})

	noMatch := row{barcode: NoMatch, counts: make([]int, len(samples))}
	for i := range samples {
		noMatch.counts[i] = m.Get(NoMatch, samples[i])
	}
	rows = append([]row{noMatch}, rows...)

	_, err := fmt.Fprintf(out, "barcode,gene,%s\n", strings.Join(samples, ","))
	if err != nil {
		return err
	}
	for i := range rows {
		err = writeRow(out, rows[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// groupByGene merges rows sharing a gene id by summing counts. The merged
// row keeps the smallest barcode key so output ordering stays deterministic.
func groupByGene(rows []row) []row {
	byGene := make(map[string]*row)
	for i := range rows {
		prev, ok := byGene[rows[i].gene]
		if !ok {
			r := rows[i]
			byGene[rows[i].gene] = &r
			continue
		}
		if rows[i].barcode < prev.barcode {
			prev.barcode = rows[i].barcode
		}
		for j := range prev.counts {
			prev.counts[j] += rows[i].counts[j]
		}
	}
	merged := make([]row, 0, len(byGene))
	for _, r := range byGene {
		merged = append(merged, *r)
	}
	return merged
}

func writeRow(out io.Writer, r row) error {
	fields := make([]string, 0, len(r.counts)+2)
	fields = append(fields, r.barcode, r.gene)
	for i := range r.counts {
		fields = append(fields, strconv.Itoa(r.counts[i]))
	}
	_, err := fmt.Fprintln(out, strings.Join(fields, ","))
	return err
}
