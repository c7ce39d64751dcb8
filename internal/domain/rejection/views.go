package rejection

import (
	"sort"

	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// FilterByFlag returns the records whose canonical flag is set.
func FilterByFlag(ds rtypes.Dataset, flag rtypes.FlagName) (rtypes.Dataset, error) {
	if _, err := rtypes.ParseFlagName(string(flag)); err != nil {
		return rtypes.Dataset{}, err
	}
	return ds.Filter(func(r rtypes.Record) bool {
		return r.Flags.Has(flag)
	}), nil
}

// LookupByApplication returns every record filed under applicationNumber.
// The match is exact.
func LookupByApplication(ds rtypes.Dataset, applicationNumber string) rtypes.Dataset {
	return ds.Filter(func(r rtypes.Record) bool {
		return r.PatentApplicationNumber == applicationNumber
	})
}

// CountByYear counts the records with flag set per submission year, ordered
// by ascending year.  Years without such records are absent.
func CountByYear(ds rtypes.Dataset, flag rtypes.FlagName) ([]rtypes.YearCount, error) {
	if err := requireYears(ds, "count by year"); err != nil {
		return nil, err
	}
	filtered, err := FilterByFlag(ds, flag)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for i := 0; i < filtered.Len(); i++ {
		counts[filtered.At(i).Year]++
	}
	out := make([]rtypes.YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, rtypes.YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// CountByLabel counts records per ActionTypeCategory value, most frequent
// first and ties broken by value.  It is meant for normalized datasets.
func CountByLabel(ds rtypes.Dataset) []rtypes.LabelCount {
	counts := make(map[string]int)
	for i := 0; i < ds.Len(); i++ {
		counts[ds.At(i).ActionTypeCategory]++
	}
	out := make([]rtypes.LabelCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, rtypes.LabelCount{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
