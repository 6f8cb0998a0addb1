package selection

import (
	"slices"
	"strings"
)

// Tags is the checkbox group of the match form: an "All" box plus one box per
// folder. "All" and the individual folders are mutually exclusive.
type Tags struct {
	names   []string
	checked map[string]bool
}

func NewTags(names []string) *Tags {
	return &Tags{
		names:   slices.Clone(names),
		checked: make(map[string]bool),
	}
}

func (t *Tags) Names() []string {
	return slices.Clone(t.names)
}

// All reports whether the "All" box is checked.
func (t *Tags) All() bool {
	return len(t.checked) == 0
}

func (t *Tags) Checked(name string) bool {
	return t.checked[name]
}

// CheckAll checks "All" and clears every folder.
func (t *Tags) CheckAll() {
	clear(t.checked)
}

// Toggle flips a folder box. Unknown names are ignored.
// Unchecking the last folder falls back to "All".
func (t *Tags) Toggle(name string) {
	if !slices.Contains(t.names, name) {
		return
	}

	if t.checked[name] {
		delete(t.checked, name)
		return
	}
	t.checked[name] = true
}

// Selected returns the checked folders in display order. It is empty when
// "All" is checked.
func (t *Tags) Selected() []string {
	selected := make([]string, 0, len(t.checked))
	for _, name := range t.names {
		if t.checked[name] {
			selected = append(selected, name)
		}
	}
	return selected
}

// Reset replaces the folder list, keeping the boxes that still exist.
func (t *Tags) Reset(names []string) {
	t.names = slices.Clone(names)
	for name := range t.checked {
		if !slices.Contains(t.names, name) {
			delete(t.checked, name)
		}
	}
}

// ParseTags splits comma separated input, trimming entries and dropping blanks
// and repeats.
func ParseTags(input string) []string {
	tags := make([]string, 0)
	for _, raw := range strings.Split(input, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" || slices.Contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
