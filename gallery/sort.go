package gallery

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortNames sorts names in place using locale-aware collation with numeric
// ordering of digit runs, so "img2.jpg" sorts before "img10.jpg".
func SortNames(names []string, tag language.Tag) {
	collate.New(tag, collate.Numeric).SortStrings(names)
}
