// Package merge concatenates per-directory gzipped fastq chunks into one
// fastq.gz per directory, named after the directory so the merged file
// carries the sample token.
package merge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/pgzip"
)

// Dir merges every *.fastq.gz / *.fq.gz chunk in dir, sorted by name, into
// <outDir>/<base(dir)>.fastq.gz and returns the merged path.
func Dir(dir, outDir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".fastq.gz") || strings.HasSuffix(e.Name(), ".fq.gz") {
			parts = append(parts, filepath.Join(dir, e.Name()))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no gzipped fastq files in %s", dir)
	}
	sort.Strings(parts)

	outFile := filepath.Join(outDir, filepath.Base(filepath.Clean(dir))+".fastq.gz")
	out, err := os.Create(outFile)
	if err != nil {
		return "", err
	}
	gz := pgzip.NewWriter(out)
	for i := range parts {
		err = appendPart(gz, parts[i])
		if err != nil {
			out.Close()
			return "", err
		}
	}
	err = gz.Close()
	if err != nil {
		out.Close()
		return "", err
	}
	return outFile, out.Close()
}

func appendPart(w io.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := pgzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()
	_, err = io.Copy(w, gz)
	return err
}
