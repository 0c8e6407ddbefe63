package flatfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"goterm/adapters/annotation"
	"goterm/domain/core"
	"goterm/domain/ontology"
	"goterm/internal/errors"
)

// GAF column positions (zero-based) used by the association parser.
const (
	gafColObjectID  = 1
	gafColQualifier = 3
	gafColGOID      = 4
	gafColAspect    = 8
	gafMinColumns   = 9
)

// LoadAssociations reads a GAF-style tab-separated association file into an
// in-memory annotation source. Rows with a NOT qualifier are skipped.
func LoadAssociations(path string) (*annotation.MemorySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open association file %s", path)
	}
	defer f.Close()
	return ParseAssociations(f)
}

// ParseAssociations parses GAF rows from r. Comment lines start with "!".
func ParseAssociations(r io.Reader) (*annotation.MemorySource, error) {
	src := annotation.NewMemorySource()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		row := scanner.Text()
		if row == "" || strings.HasPrefix(row, "!") {
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) < gafMinColumns {
			return nil, errors.New(errors.CodeParseError,
				"association row "+strconv.Itoa(line)+" has fewer than 9 columns")
		}

		item := core.ItemID(strings.TrimSpace(cols[gafColObjectID]))
		if item == "" {
			continue
		}
		// Every row makes the item resolvable, even when the annotation
		// itself is negated or malformed.
		src.AddItem(item)

		if strings.Contains(cols[gafColQualifier], "NOT") {
			continue
		}
		aspect, err := ontology.ParseAspect(cols[gafColAspect])
		if err != nil {
			return nil, errors.New(errors.CodeParseError,
				"association row "+strconv.Itoa(line)+" has unknown aspect "+cols[gafColAspect])
		}
		goid := core.CategoryID(strings.TrimSpace(cols[gafColGOID]))
		if goid == "" {
			continue
		}
		src.Annotate(item, aspect, goid)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read association stream")
	}
	return src, nil
}
