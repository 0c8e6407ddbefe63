package flatfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"goterm/domain/core"
)

// LoadItems reads a query list file, one item identifier per line. Blank
// lines and lines starting with "#" are skipped. Only the first whitespace
// separated field of each line is used, so annotated lists with trailing
// descriptions load cleanly.
func LoadItems(path string) ([]core.ItemID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open item list %s: %w", path, err)
	}
	defer f.Close()
	items, err := ParseItems(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item list %s: %w", path, err)
	}
	return items, nil
}

// ParseItems reads item identifiers from r.
func ParseItems(r io.Reader) ([]core.ItemID, error) {
	var items []core.ItemID
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items = append(items, core.ItemID(strings.Fields(line)[0]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
