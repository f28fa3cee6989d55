// Package locale loads the localization table behind the strings()
// pseudo-element.
package locale

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/phobologic/traitgraph/internal/document"
)

// Table maps string identifiers to localized text.
type Table map[string]string

// Lookup returns the text for id. Missing entries resolve to "" and are
// logged; they never fail a menu.
func (t Table) Lookup(id string) string {
	s, ok := t[id]
	if !ok {
		glog.Warningf("localization: no string for %q", id)
	}
	return s
}

// Load reads a strings file from path.
func Load(ctx context.Context, path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading strings %s: %w", path, err)
	}
	t, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a strings document: every child of the top-level element is
// one entry, keyed by its tag and holding its text.
//
//	<strings>
//	  <sYes>Yes</sYes>
//	</strings>
func Parse(ctx context.Context, source []byte) (Table, error) {
	doc, err := document.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	t := make(Table)
	for _, top := range doc.Children {
		for _, entry := range top.Children {
			if _, dup := t[entry.Tag]; dup {
				glog.Warningf("localization: line %d: duplicate string %q", entry.Line, entry.Tag)
			}
			t[entry.Tag] = entry.Text
		}
	}
	glog.V(2).Infof("localization: loaded %d strings", len(t))
	return t, nil
}
