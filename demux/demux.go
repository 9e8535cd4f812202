// Package demux streams fastq read collections, classifies each read against
// the tag reference, and accumulates the count matrix. One read collection
// corresponds to one sample, named by the file it came from.
package demux

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tagseq/tagcount/count"
	"github.com/tagseq/tagcount/tag"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fastq"
	"github.com/vertgenlab/gonomics/fileio"
)

// Sample name is the basename up to and including the trailing digit run
// immediately before the extension, e.g. well_A07.fastq.gz -> well_A07.
var sampleRegex = regexp.MustCompile(`^(.*\d)\.[^.]*$`)

// SampleName derives the sample token from a read collection's path.
// A name with no digit run before the extension is a configuration error.
func SampleName(path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".gz")
	m := sampleRegex.FindStringSubmatch(base)
	if m == nil {
		return "", fmt.Errorf("cannot derive a sample name from %q: file name must end in digits before the extension", filepath.Base(path))
	}
	return m[1], nil
}

// Stats tallies classification outcomes for one sample.
type Stats struct {
	Sample    string
	Reads     int
	Resolved  int
	Ambiguous int // 2+ reference tags found; counted as no_match
}

// Rate returns the percentage of reads resolved to exactly one tag.
func (s Stats) Rate() float64 {
	if s.Reads == 0 {
		return 0
	}
	return 100 * float64(s.Resolved) / float64(s.Reads)
}

// Run classifies every read of every file into mat. Sample names are derived
// up front so a bad file name aborts before any output is written. When
// noMatchFile is non-empty, every unresolved read is written there in
// encounter order; a .gz suffix gzips the output.
func Run(files []string, ref map[string]string, anchors tag.Anchors, noMatchFile string) (*count.Matrix, []Stats, error) {
	samples := make([]string, len(files))
	var err error
	for i := range files {
		samples[i], err = SampleName(files[i])
		if err != nil {
			return nil, nil, err
		}
	}

	var noMatchOut *fileio.EasyWriter
	if noMatchFile != "" {
		noMatchOut = fileio.EasyCreate(noMatchFile)
	}

	mat := count.NewMatrix()
	stats := make([]Stats, len(files))
	for i := range files {
		stats[i] = File(files[i], samples[i], ref, anchors, mat, noMatchOut)
	}

	if noMatchOut != nil {
		err = noMatchOut.Close()
		exception.PanicOnErr(err)
	}
	return mat, stats, nil
}

// File classifies every read in one fastq file, crediting counts to sample.
// Reads are processed one at a time; no read's classification depends on any
// other read.
func File(file, sample string, ref map[string]string, anchors tag.Anchors, mat *count.Matrix, noMatchOut *fileio.EasyWriter) Stats {
	mat.AddSample(sample)
	s := Stats{Sample: sample}

	reads := fastq.GoReadToChan(file)
	var res tag.Result
	for fq := range reads {
		s.Reads++
		res = tag.Classify(dna.BasesToString(fq.Seq), ref, anchors)
		if res.Outcome == tag.Resolved {
			s.Resolved++
			mat.Inc(res.Barcode, sample)
			continue
		}
		if res.Outcome == tag.Ambiguous {
			s.Ambiguous++
		}
		mat.Inc(count.NoMatch, sample)
		if noMatchOut != nil {
			fastq.WriteToFileHandle(noMatchOut, fq)
		}
	}
	return s
}
