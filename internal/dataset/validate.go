// internal/dataset/validate.go
//
// Authoring checks over a parsed dataset, logged at startup.

package dataset

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Problem is an authoring issue found in a dataset.
type Problem struct {
	ItemID  string `json:"itemId,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.ItemID == "" {
		return p.Message
	}
	return p.ItemID + ": " + p.Message
}

// Validate lists authoring problems: duplicate labels or ids, items with a
// missing location field, and locations naming labels outside the axes.
// Nothing here stops the board from running; malformed items simply never
// match any cell.
func (d *Dataset) Validate() []Problem {
	var out []Problem

	areas := labelSet(d.KnowledgeAreas, "knowledge area", &out)
	groups := labelSet(d.ProcessGroups, "process group", &out)

	ids := mapset.New[string]()
	for _, it := range d.Processes {
		if it.ID == "" {
			out = append(out, Problem{Message: fmt.Sprintf("process %q has no id", it.Name)})
			continue
		}
		if ids.Has(it.ID) {
			out = append(out, Problem{ItemID: it.ID, Message: "duplicate id"})
		}
		ids.Put(it.ID)

		loc := it.CorrectLocation
		if !loc.Complete() {
			out = append(out, Problem{ItemID: it.ID, Message: "correctLocation is incomplete"})
			continue
		}
		if !areas.Has(loc.KnowledgeArea) {
			out = append(out, Problem{ItemID: it.ID, Message: fmt.Sprintf("unknown knowledge area %q", loc.KnowledgeArea)})
		}
		if !groups.Has(loc.ProcessGroup) {
			out = append(out, Problem{ItemID: it.ID, Message: fmt.Sprintf("unknown process group %q", loc.ProcessGroup)})
		}
	}
	return out
}

func labelSet(labels []string, kind string, out *[]Problem) mapset.Set[string] {
	s := mapset.New[string]()
	for _, l := range labels {
		if s.Has(l) {
			*out = append(*out, Problem{Message: fmt.Sprintf("duplicate %s %q", kind, l)})
		}
		s.Put(l)
	}
	return s
}
