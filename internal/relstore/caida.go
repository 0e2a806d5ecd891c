package relstore

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relation"
)

// LoadCAIDAASRel bootstraps a Store directly from a CAIDA as-rel formatted
// file, for local tooling and tests that have no external store to talk
// to. Each line is "<asA>|<asB>|<code>", code 0 meaning a p2p (peer) link
// and -1 meaning asB is a customer of asA (and asA a provider of asB).
// Lines containing '#' are comments and skipped.
func LoadCAIDAASRel(filename string) (*Store, error) {
	f, err := openCompressed(filename)
	if err != nil {
		return nil, fmt.Errorf("relstore: %w", err)
	}
	defer f.Close()

	s := New()
	scanner := bufio.NewScanner(f.reader)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 3 {
			continue
		}
		a, err := asid.Encode(fields[0])
		if err != nil {
			continue
		}
		b, err := asid.Encode(fields[1])
		if err != nil {
			continue
		}
		switch fields[2] {
		case "0":
			s.set(a, b, relation.Peer)
			s.set(b, a, relation.Peer)
		case "-1":
			s.set(a, b, relation.Customer)
			s.set(b, a, relation.Provider)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("relstore: reading %s: %w", filename, err)
	}
	return s, nil
}

// compressedFile transparently decompresses .gz/.bz2 inputs.
type compressedFile struct {
	fp     *os.File
	gzip   *gzip.Reader
	reader io.Reader
}

func openCompressed(filename string) (*compressedFile, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	cf := &compressedFile{fp: fp}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		gz, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return nil, fmt.Errorf("gzip %s: %w", filename, err)
		}
		cf.gzip = gz
		cf.reader = gz
	case strings.HasSuffix(filename, ".bz2"):
		cf.reader = bzip2.NewReader(fp)
	default:
		cf.reader = fp
	}
	return cf, nil
}

func (c *compressedFile) Close() error {
	if c.gzip != nil {
		c.gzip.Close()
	}
	return c.fp.Close()
}
