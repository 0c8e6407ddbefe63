// Package flatfile loads ontologies and annotations from their standard
// flat-file formats into the in-memory adapters. It is the parsing layer
// in front of the statistical core, which never reads files itself.
package flatfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	adont "goterm/adapters/ontology"
	"goterm/domain/core"
	"goterm/domain/ontology"
	"goterm/internal/errors"
)

// SyntheticRootID is the id of the root node joining the per-aspect
// branches, which OBO files do not carry explicitly.
const SyntheticRootID = core.CategoryID("GO:ALL")

// LoadOBO reads an OBO ontology file and builds the category graph. Terms
// marked obsolete are skipped; terms with no is_a parent become children
// of the synthetic root.
func LoadOBO(path string) (*adont.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open ontology file %s", path)
	}
	defer f.Close()
	return ParseOBO(f)
}

// oboTerm is one [Term] stanza under construction.
type oboTerm struct {
	id        core.CategoryID
	name      string
	namespace string
	parents   []core.CategoryID
	obsolete  bool
}

// ParseOBO parses OBO stanzas from r into a category graph.
func ParseOBO(r io.Reader) (*adont.Graph, error) {
	var terms []oboTerm
	var cur *oboTerm
	inTerm := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "[Term]":
			if cur != nil {
				terms = append(terms, *cur)
			}
			cur = &oboTerm{}
			inTerm = true
		case strings.HasPrefix(line, "["):
			// Typedef or other stanza kind.
			if cur != nil {
				terms = append(terms, *cur)
				cur = nil
			}
			inTerm = false
		case inTerm && cur != nil:
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch key {
			case "id":
				cur.id = core.CategoryID(value)
			case "name":
				cur.name = value
			case "namespace":
				cur.namespace = value
			case "is_a":
				// "GO:0008152 ! metabolic process"
				parent, _, _ := strings.Cut(value, "!")
				cur.parents = append(cur.parents, core.CategoryID(strings.TrimSpace(parent)))
			case "is_obsolete":
				cur.obsolete = value == "true"
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read ontology stream")
	}
	if cur != nil {
		terms = append(terms, *cur)
	}

	builder := adont.NewBuilder().
		AddCategory(ontology.Category{ID: SyntheticRootID, Name: "all"}).
		Root(SyntheticRootID)

	kept := make(map[core.CategoryID]bool)
	for _, term := range terms {
		if term.obsolete || term.id == "" {
			continue
		}
		aspect, err := ontology.ParseAspect(term.namespace)
		if err != nil {
			return nil, errors.New(errors.CodeParseError,
				"term "+term.id.String()+" has unknown namespace "+term.namespace)
		}
		builder.AddCategory(ontology.Category{ID: term.id, Name: term.name, Aspect: aspect})
		kept[term.id] = true
	}
	for _, term := range terms {
		if term.obsolete || term.id == "" {
			continue
		}
		if len(term.parents) == 0 {
			// An aspect branch node.
			builder.AddEdge(term.id, SyntheticRootID)
			continue
		}
		for _, parent := range term.parents {
			if !kept[parent] {
				// is_a pointing at an obsolete term; reroot at the top.
				builder.AddEdge(term.id, SyntheticRootID)
				continue
			}
			builder.AddEdge(term.id, parent)
		}
	}

	graph, err := builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to assemble ontology graph")
	}
	return graph, nil
}
