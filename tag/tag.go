// Package tag locates barcode tags inside sequencing reads using short
// flanking-sequence anchors and resolves them against a reference lookup.
package tag

import (
	"fmt"
	"strings"
)

// DefaultFivePrimeContext is the 3' end of the BA amplification primer,
// immediately upstream of the tag.
const DefaultFivePrimeContext string = "CGCCAGGGTTTTCCCAGT"

// DefaultThreePrimeContext is the start of the R2-to-amp97 cassette,
// immediately downstream of the tag.
const DefaultThreePrimeContext string = "GGTCGACGGATCCCCGGGAATTGCCATGGCGGCCGCTCTAGAACTAGTGGATCCCCCGGGCTGCAGGAATTCGA"

// AnchorLen is the number of context bases used to anchor the tag on each
// side. Matching only the innermost bases keeps the search tolerant of the
// true amplicon being longer or shorter than the full context sequence;
// disambiguation comes from the matched span existing in the reference.
const AnchorLen int = 5

// Tags must be between MinTagLen and MaxTagLen bases, inclusive.
const (
	MinTagLen int = 8
	MaxTagLen int = 16
)

// Anchors holds the four flanking anchors used to locate a tag: the 5' and 3'
// anchors on the forward strand and their reverse complements, used to
// recover tags sequenced from the opposite strand. All anchors are lowercase.
type Anchors struct {
	fiveP    string
	threeP   string
	fivePRC  string
	threePRC string
}

// NewAnchors derives anchors from full-length context sequences: the last
// AnchorLen bases of the 5' context and the first AnchorLen bases of the 3'
// context. Contexts shorter than AnchorLen are a configuration error.
func NewAnchors(fivePrimeContext, threePrimeContext string) (Anchors, error) {
	if len(fivePrimeContext) < AnchorLen {
		return Anchors{}, fmt.Errorf("5' context sequence must be at least %d bases, got %q", AnchorLen, fivePrimeContext)
	}
	if len(threePrimeContext) < AnchorLen {
		return Anchors{}, fmt.Errorf("3' context sequence must be at least %d bases, got %q", AnchorLen, threePrimeContext)
	}
	fiveP := strings.ToLower(fivePrimeContext[len(fivePrimeContext)-AnchorLen:])
	threeP := strings.ToLower(threePrimeContext[:AnchorLen])
	return Anchors{
		fiveP:    fiveP,
		threeP:   threeP,
		fivePRC:  RevComp(fiveP),
		threePRC: RevComp(threeP),
	}, nil
}

// Outcome classifies a single read.
type Outcome byte

const (
	// NoMatch means no candidate span existed in the reference.
	NoMatch Outcome = iota
	// Resolved means exactly one candidate span existed in the reference.
	Resolved
	// Ambiguous means two or more candidate spans existed in the reference.
	// Ambiguous reads count toward no_match but are tallied separately.
	Ambiguous
)

// Result is the classification of one read.
type Result struct {
	Outcome Outcome
	Barcode string // lowercase tag key, set only when Outcome == Resolved
	Found   int    // reference-matching candidates, duplicates included
}

// Classify scans seq for tag candidates on both strands and resolves them
// against ref. Matching is case-insensitive.
func Classify(seq string, ref map[string]string, a Anchors) Result {
	var r Result
	var hit string
	for _, c := range Candidates(seq, a) {
		if _, ok := ref[c]; ok {
			r.Found++
			hit = c
		}
	}
	switch r.Found {
	case 0:
		r.Outcome = NoMatch
	case 1:
		r.Outcome = Resolved
		r.Barcode = hit
	default:
		r.Outcome = Ambiguous
	}
	return r
}

// Candidates returns every anchor-flanked span in seq, lowercase and
// normalized to forward-strand orientation. The forward pass matches
// 5'-anchor, 8-16 bases, 3'-anchor; the reverse pass matches the
// reverse-complemented anchors in opposite order and flips each span back.
func Candidates(seq string, a Anchors) []string {
	s := strings.ToLower(seq)
	hits := scan(s, a.fiveP, a.threeP, nil)
	rev := scan(s, a.threePRC, a.fivePRC, nil)
	for i := range rev {
		hits = append(hits, RevComp(rev[i]))
	}
	return hits
}

// scan appends to hits every span of MinTagLen to MaxTagLen bases flanked by
// left and right in seq. The longest valid span wins at each left-anchor
// occurrence, so a tag that happens to contain the right anchor is still
// captured whole. Scanning resumes after the full match, so matches do not
// overlap.
func scan(seq, left, right string, hits []string) []string {
	var pos, idx, end int
	for pos < len(seq) {
		idx = strings.Index(seq[pos:], left)
		if idx == -1 {
			break
		}
		idx += pos
		start := idx + len(left)
		matched := false
		for n := MaxTagLen; n >= MinTagLen; n-- {
			end = start + n
			if end+len(right) > len(seq) {
				continue
			}
			if seq[end:end+len(right)] == right {
				hits = append(hits, seq[start:end])
				pos = end + len(right)
				matched = true
				break
			}
		}
		if !matched {
			pos = idx + 1
		}
	}
	return hits
}

// RevComp returns the reverse complement of s. Case is preserved and
// non-ACGT characters pass through unchanged so that a malformed read can
// never abort a run; such candidates simply never exist in the reference.
func RevComp(s string) string {
	ans := make([]byte, len(s))
	var j int
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case 'A':
			ans[j] = 'T'
		case 'a':
			ans[j] = 't'
		case 'C':
			ans[j] = 'G'
		case 'c':
			ans[j] = 'g'
		case 'G':
			ans[j] = 'C'
		case 'g':
			ans[j] = 'c'
		case 'T':
			ans[j] = 'A'
		case 't':
			ans[j] = 'a'
		default:
			ans[j] = s[i]
		}
		j++
	}
	return string(ans)
}
