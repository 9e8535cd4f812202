// Package reference loads the gene-to-tag table into a lookup from lowercase
// tag sequence to gene id.
package reference

import (
	"fmt"
	"log"
	"strings"

	"github.com/tagseq/tagcount/tag"
	"github.com/vertgenlab/gonomics/fileio"
)

// Read loads a CSV tag table from filename. The file may be gzipped. The
// header must contain a gene column named "gene id" or "gene_id" and a tag
// column named "tag" or "barcode" (any case). When ignoreMissingTag is true,
// rows with an empty tag field are skipped instead of rejected.
func Read(filename string, ignoreMissingTag bool) (map[string]string, error) {
	lines := fileio.Read(filename)
	if len(lines) == 0 {
		return nil, fmt.Errorf("tag table %s is empty", filename)
	}
	rows := make([][]string, len(lines))
	for i := range lines {
		rows[i] = strings.Split(strings.Trim(lines[i], "\r\n"), ",")
	}
	return Load(rows[0], rows[1:], ignoreMissingTag)
}

// Load builds the tag -> gene id lookup from a parsed table. Keys are
// normalized to lowercase. A tag reading "none" (any case) marks a gene with
// no designed tag and is skipped. A tag outside [tag.MinTagLen, tag.MaxTagLen]
// means the table itself is untrustworthy and the run must not proceed.
//
// Duplicate tag sequences are not rejected: the last row read wins. When the
// duplicate maps to a different gene a warning is logged, since counts for
// that tag will all credit the winning gene.
func Load(header []string, rows [][]string, ignoreMissingTag bool) (map[string]string, error) {
	geneCol, tagCol := -1, -1
	for i := range header {
		switch strings.ToLower(strings.TrimSpace(header[i])) {
		case "gene id", "gene_id":
			geneCol = i
		case "tag", "barcode":
			tagCol = i
		}
	}
	if geneCol == -1 {
		return nil, fmt.Errorf("tag table has no gene id column (gene id/gene_id), got header %q", strings.Join(header, ","))
	}
	if tagCol == -1 {
		return nil, fmt.Errorf("tag table has no tag column (tag/barcode), got header %q", strings.Join(header, ","))
	}

	ref := make(map[string]string)
	var gene, bc string
	for i := range rows {
		gene, bc = "", ""
		if geneCol < len(rows[i]) {
			gene = strings.TrimSpace(rows[i][geneCol])
		}
		if tagCol < len(rows[i]) {
			bc = strings.ToLower(strings.TrimSpace(rows[i][tagCol]))
		}
		if gene == "" {
			return nil, fmt.Errorf("tag table row %d is missing a gene id", i+2)
		}
		if bc == "" {
			if ignoreMissingTag {
				continue
			}
			return nil, fmt.Errorf("tag table row %d (gene %s) is missing a tag", i+2, gene)
		}
		if bc == "none" {
			continue
		}
		if len(bc) < tag.MinTagLen || len(bc) > tag.MaxTagLen {
			return nil, fmt.Errorf("tag table row %d (gene %s): tag %q is %d bases, must be %d-%d", i+2, gene, bc, len(bc), tag.MinTagLen, tag.MaxTagLen)
		}
		if prev, ok := ref[bc]; ok && prev != gene {
			log.Printf("WARNING: tag %s assigned to both %s and %s, keeping %s\n", bc, prev, gene, gene)
		}
		ref[bc] = gene
	}
	return ref, nil
}
