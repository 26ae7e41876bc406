package insights

import (
	"strings"

	"github.com/retaildash/retaildash/internal/record"
)

// CountryAll is the sentinel country value meaning "no country filter",
// mirroring the default option of the dashboard's select widget.
const CountryAll = "All"

// Filter narrows a record set. Both predicates are optional and combine with
// logical AND; the zero value (with Country left "" or set to CountryAll) is
// the identity filter.
type Filter struct {
	// Search is a case-insensitive substring match on the description.
	// Records without a description never match a non-empty search.
	Search string
	// Country is an exact match; "" and CountryAll disable it.
	Country string
}

// Apply returns the records matching the filter, in input order. The result
// is a fresh slice; the input is never mutated, and applying the same filter
// to its own output returns an equal set.
func (f Filter) Apply(records []record.Record) []record.Record {
	search := strings.ToLower(f.Search)
	byCountry := f.Country != "" && f.Country != CountryAll

	out := make([]record.Record, 0, len(records))

	for _, r := range records {
		if search != "" {
			if r.Description == "" || !strings.Contains(strings.ToLower(r.Description), search) {
				continue
			}
		}

		if byCountry && r.Country != f.Country {
			continue
		}

		out = append(out, r)
	}

	return out
}
