// Package genres maps integer class labels to genre names.
//
// Labels are 1-based positions in the enumeration, so the first genre is
// label 1. An enumeration built from a source directory lists its
// subdirectories in lexical order, capped at a maximum count.
package genres

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownGenre is returned when a name has no label.
var ErrUnknownGenre = errors.New("unknown genre")

// Enumeration is an ordered list of genre names.
type Enumeration struct {
	names  []string
	labels map[string]int
}

// FromNames builds an enumeration from names in order. Blank names are
// dropped; duplicates (case-insensitive) are an error.
func FromNames(names []string) (*Enumeration, error) {
	e := &Enumeration{
		labels: make(map[string]int, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := e.labels[key]; dup {
			return nil, fmt.Errorf("duplicate genre %q", name)
		}
		e.names = append(e.names, name)
		e.labels[key] = len(e.names)
	}
	return e, nil
}

// FromDirectory enumerates the subdirectories of dir in lexical order,
// keeping at most limit of them. Hidden directories are ignored.
func FromDirectory(dir string, limit int) (*Enumeration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read genre directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return FromNames(names)
}

// Len returns the number of genres.
func (e *Enumeration) Len() int {
	if e == nil {
		return 0
	}
	return len(e.names)
}

// Names returns the genre names in label order.
func (e *Enumeration) Names() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.names)
}

// Name returns the raw name for label and whether it is known.
func (e *Enumeration) Name(label int) (string, bool) {
	if e == nil || label < 1 || label > len(e.names) {
		return "", false
	}
	return e.names[label-1], true
}

// Label returns the label for name, matching case-insensitively.
func (e *Enumeration) Label(name string) (int, error) {
	if e != nil {
		if label, ok := e.labels[strings.ToLower(strings.TrimSpace(name))]; ok {
			return label, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGenre, name)
}

// Display returns a human-readable name for label. Unknown labels render as
// "genre <n>".
func (e *Enumeration) Display(label int) string {
	name, ok := e.Name(label)
	if !ok {
		return "genre " + strconv.Itoa(label)
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}
