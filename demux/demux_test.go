package demux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tagseq/tagcount/count"
	"github.com/tagseq/tagcount/tag"
	"github.com/vertgenlab/gonomics/fileio"
)

func TestSampleName(t *testing.T) {
	tests := []struct {
		path    string
		sample  string
		wantErr bool
	}{
		{"s1.fastq", "s1", false},
		{"s12.fq.gz", "s12", false},
		{"/path/to/well_A07.fastq.gz", "well_A07", false},
		{"a1.b2.fastq", "a1.b2", false},
		{"reads.fastq", "", true},
		{"s1", "", true},
	}
	for _, test := range tests {
		sample, err := SampleName(test.path)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got sample %q", test.path, sample)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.path, err)
			continue
		}
		if sample != test.sample {
			t.Errorf("%s: expected sample %q, got %q", test.path, test.sample, sample)
		}
	}
}

func writeFastq(t *testing.T, dir, name string, reads [][2]string) string {
	t.Helper()
	var b strings.Builder
	for _, r := range reads {
		b.WriteString("@" + r[0] + "\n")
		b.WriteString(r[1] + "\n")
		b.WriteString("+\n")
		b.WriteString(strings.Repeat("I", len(r[1])) + "\n")
	}
	file := filepath.Join(dir, name)
	err := os.WriteFile(file, []byte(b.String()), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return file
}

// One correctly flanked reference tag plus three junk reads must yield
// exactly one resolved count and three no_match counts.
func TestRunEndToEnd(t *testing.T) {
	ref := map[string]string{"aaaaaaaa": "geneA"}
	anchors, err := tag.NewAnchors(tag.DefaultFivePrimeContext, tag.DefaultThreePrimeContext)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	file := writeFastq(t, dir, "s1.fastq", [][2]string{
		{"good", "TTTTCCAGTAAAAAAAAGGTCGTTTT"},
		{"junk1", "TTTTTTTTTTTTTTTTTTTTTTTTTT"},
		{"junk2", "GGGGGGGGGGGGGGGGGGGGGGGGGG"},
		{"junk3", "CACACACACACACACACACACACACA"},
	})
	noMatchFile := filepath.Join(dir, "nomatch.fastq")

	mat, stats, err := Run([]string{file}, ref, anchors, noMatchFile)
	if err != nil {
		t.Fatal(err)
	}

	if len(stats) != 1 || stats[0].Sample != "s1" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats[0].Reads != 4 || stats[0].Resolved != 1 || stats[0].Ambiguous != 0 {
		t.Errorf("expected 4 reads, 1 resolved, 0 ambiguous, got %+v", stats[0])
	}
	if mat.Get("aaaaaaaa", "s1") != 1 {
		t.Errorf("expected 1 count for aaaaaaaa, got %d", mat.Get("aaaaaaaa", "s1"))
	}
	if mat.Get(count.NoMatch, "s1") != 3 {
		t.Errorf("expected 3 no_match counts, got %d", mat.Get(count.NoMatch, "s1"))
	}

	var report strings.Builder
	err = count.WriteReport(&report, mat, ref, false)
	if err != nil {
		t.Fatal(err)
	}
	expected := "barcode,gene,s1\n" +
		"no_match,,3\n" +
		"aaaaaaaa,geneA,1\n"
	if report.String() != expected {
		t.Errorf("expected report:\n%s\ngot:\n%s", expected, report.String())
	}

	// unresolved reads written verbatim in encounter order
	lines := fileio.Read(noMatchFile)
	if len(lines) != 12 {
		t.Fatalf("expected 3 fastq records (12 lines) in no-match output, got %d lines", len(lines))
	}
	for i, name := range []string{"@junk1", "@junk2", "@junk3"} {
		if lines[i*4] != name {
			t.Errorf("no-match record %d: expected %s, got %s", i, name, lines[i*4])
		}
	}
}

func TestRunBadSampleNameFailsBeforeProcessing(t *testing.T) {
	dir := t.TempDir()
	good := writeFastq(t, dir, "s1.fastq", [][2]string{{"r", "ACGTACGT"}})
	bad := filepath.Join(dir, "reads.fastq") // no digits, never opened
	anchors, err := tag.NewAnchors(tag.DefaultFivePrimeContext, tag.DefaultThreePrimeContext)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = Run([]string{good, bad}, map[string]string{}, anchors, "")
	if err == nil {
		t.Error("expected error for unparseable sample name")
	}
}

func TestFileAmbiguous(t *testing.T) {
	ref := map[string]string{"aaaaaaaa": "geneA", "cgcgcgcg": "geneB"}
	anchors, err := tag.NewAnchors(tag.DefaultFivePrimeContext, tag.DefaultThreePrimeContext)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	file := writeFastq(t, dir, "s2.fastq", [][2]string{
		{"ambig", "CCAGTAAAAAAAAGGTCGTTCCAGTCGCGCGCGGGTCGTT"},
	})
	mat := count.NewMatrix()
	stats := File(file, "s2", ref, anchors, mat, nil)
	if stats.Reads != 1 || stats.Ambiguous != 1 || stats.Resolved != 0 {
		t.Errorf("expected 1 ambiguous read, got %+v", stats)
	}
	if mat.Get(count.NoMatch, "s2") != 1 {
		t.Errorf("ambiguous read must count as no_match, got %d", mat.Get(count.NoMatch, "s2"))
	}
}
