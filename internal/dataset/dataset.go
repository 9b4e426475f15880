// internal/dataset/dataset.go
//
// Dataset loading for the matching board.
//
// Responsibilities:
//   - Parse the category/process document (JSON or YAML).
//   - Load it from a file path or fall back to the embedded default.
//   - Build an id index so drops can resolve an item in O(1).
//   - Report (but never enforce) authoring problems.
//
// Document shape:
//
//	{
//	  "knowledgeAreas": ["..."],       // axis A, row order
//	  "processGroups":  ["..."],       // axis B, column order
//	  "processes": [
//	    {"id": "p1", "name": "...",
//	     "correctLocation": {"knowledgeArea": "...", "processGroup": "..."}}
//	  ]
//	}
//
// A Dataset is read-only once returned.

package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/matchboard/assets"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrEmpty is returned when the document decodes to nothing at all.
var ErrEmpty = errors.New("dataset: empty document")

// Location is the (knowledge area, process group) pair an item belongs to.
type Location struct {
	KnowledgeArea string `json:"knowledgeArea" yaml:"knowledgeArea"`
	ProcessGroup  string `json:"processGroup" yaml:"processGroup"`
}

// Complete reports whether both axis values are present.
func (l Location) Complete() bool {
	return l.KnowledgeArea != "" && l.ProcessGroup != ""
}

// Item is one placeable process.
type Item struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	CorrectLocation Location `json:"correctLocation" yaml:"correctLocation"`
}

// Dataset is the parsed document plus a lookup index.
type Dataset struct {
	KnowledgeAreas []string `json:"knowledgeAreas" yaml:"knowledgeAreas"`
	ProcessGroups  []string `json:"processGroups" yaml:"processGroups"`
	Processes      []Item   `json:"processes" yaml:"processes"`

	indexOnce sync.Once
	index     map[string]int
}

// Parse decodes data in the given format and indexes the items.
func Parse(data []byte, format Format) (*Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var ds Dataset
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("dataset: unknown format %q", format)
	}
	if ds.KnowledgeAreas == nil && ds.ProcessGroups == nil && ds.Processes == nil {
		return nil, ErrEmpty
	}
	ds.indexOnce.Do(ds.reindex)
	return &ds, nil
}

// Load reads a dataset file. The format follows the extension:
// .yaml/.yml are YAML, anything else is JSON.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// Default returns the dataset compiled into the binary.
func Default() (*Dataset, error) {
	data, err := assets.DefaultDataset()
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return Parse(data, FormatJSON)
}

// Open loads path when set, otherwise the embedded default.
func Open(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// FormatFromPath guesses the encoding from a file name.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Lookup finds an item by id. It is safe for concurrent use; a Dataset
// built as a literal is indexed once, on the first lookup.
func (d *Dataset) Lookup(id string) (Item, bool) {
	d.indexOnce.Do(d.reindex)
	i, ok := d.index[id]
	if !ok {
		return Item{}, false
	}
	return d.Processes[i], true
}

// Len returns the number of items.
func (d *Dataset) Len() int { return len(d.Processes) }

// reindex maps ids to positions. On duplicate ids the first one wins,
// matching a linear front-to-back search.
func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.Processes))
	for i, it := range d.Processes {
		if _, dup := d.index[it.ID]; dup {
			continue
		}
		d.index[it.ID] = i
	}
}
