package rejection

import (
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// RewriteActionType canonicalizes one action-type value by running every
// rewrite rule in order.  A value that already equals a canonical label is
// returned unchanged; a value matching no rule passes through.
func RewriteActionType(value string) string {
	out, _ := rewrite(value)
	return out
}

// rewrite also returns the labels whose rule matched, in rule order.  A
// canonical value reports its own label.
func rewrite(value string) (string, []rtypes.Label) {
	if rtypes.IsCanonicalLabel(value) {
		return value, []rtypes.Label{rtypes.Label(value)}
	}
	var fired []rtypes.Label
	for _, rule := range rewriteRules {
		var ok bool
		if value, ok = rule.Apply(value); ok {
			fired = append(fired, rule.Label)
		}
	}
	return value, fired
}

// NormalizeCategories returns a copy of ds with every ActionTypeCategory
// rewritten.  No record is dropped.
func NormalizeCategories(ds rtypes.Dataset) rtypes.Dataset {
	out, _ := NormalizeCategoriesCounted(ds)
	return out
}

// NormalizeCategoriesCounted is NormalizeCategories that also reports, per
// label, how many records it was applied to.
func NormalizeCategoriesCounted(ds rtypes.Dataset) (rtypes.Dataset, map[rtypes.Label]int) {
	records := ds.Records()
	counts := make(map[rtypes.Label]int)
	for i := range records {
		value, fired := rewrite(records[i].ActionTypeCategory)
		records[i].ActionTypeCategory = value
		for _, l := range fired {
			counts[l]++
		}
	}
	return ds.Derive(records), counts
}

// SelectCategory returns the records whose ActionTypeCategory matches the
// detection pattern of category.
func SelectCategory(ds rtypes.Dataset, category rtypes.Category) (rtypes.Dataset, error) {
	if !category.IsValid() {
		_, err := rtypes.ParseCategory(string(category))
		return rtypes.Dataset{}, err
	}
	if _, ok := detectors[category]; !ok {
		return rtypes.Dataset{}, errors.Internal("no detection pattern for category " + string(category))
	}
	return ds.Filter(func(r rtypes.Record) bool {
		return MatchesCategory(r.ActionTypeCategory, category)
	}), nil
}
