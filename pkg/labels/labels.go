// Package labels maps label texts of the export to annotation label ids
// of the database and knows which labels have to be blurred.
package labels

import (
	"fmt"
	"maps"
	"slices"

	"github.com/viltkamera/wcimport/pkg/schema"
)

// Catalog is an immutable label lookup built once per run.
type Catalog struct {
	ids  map[string]int
	blur map[string]struct{}
}

// UnknownLabelError is returned for a label text that has no row in
// the labels table.
type UnknownLabelError struct {
	Text string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown annotation label %q", e.Text)
}

// New creates a Catalog from annotation label rows.
func New(rows []schema.AnnotationLabel) *Catalog {
	res := &Catalog{
		ids:  make(map[string]int, len(rows)),
		blur: make(map[string]struct{}),
	}
	for _, v := range rows {
		res.ids[v.Text] = v.ID
		if v.Blur {
			res.blur[v.Text] = struct{}{}
		}
	}
	return res
}

// ID returns the label id for a text.
func (c *Catalog) ID(text string) (int, error) {
	id, ok := c.ids[text]
	if !ok {
		return 0, &UnknownLabelError{Text: text}
	}
	return id, nil
}

// OptionalID is like ID, but an empty text gives nil.
func (c *Catalog) OptionalID(text string) (*int, error) {
	if text == "" {
		return nil, nil
	}
	id, err := c.ID(text)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Blur reports if regions with this label must be blurred.
func (c *Catalog) Blur(text string) bool {
	_, ok := c.blur[text]
	return ok
}

// BlurLabels returns the sorted blur-flagged label texts.
func (c *Catalog) BlurLabels() []string {
	return slices.Sorted(maps.Keys(c.blur))
}

// Len returns the number of known labels.
func (c *Catalog) Len() int {
	return len(c.ids)
}
