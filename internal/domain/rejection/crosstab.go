package rejection

import (
	"sort"
	"time"

	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

const (
	// DefaultMinYear is the first year the upstream API holds records for.
	DefaultMinYear = 2018
	// DefaultPublicationLagMonths is how far behind the present upstream data trails.
	DefaultPublicationLagMonths = 3
)

// YearBounds is the accepted range of submission years for single-year views.
type YearBounds struct {
	MinYear              int
	PublicationLagMonths int
}

// DefaultYearBounds returns the bounds of the public API.
func DefaultYearBounds() YearBounds {
	return YearBounds{MinYear: DefaultMinYear, PublicationLagMonths: DefaultPublicationLagMonths}
}

// MaxYear is the year of now minus the publication lag.
func (b YearBounds) MaxYear(now time.Time) int {
	return now.AddDate(0, -b.PublicationLagMonths, 0).Year()
}

// Check returns an input error when year lies outside [MinYear, MaxYear(now)].
func (b YearBounds) Check(year int, now time.Time) error {
	if year < b.MinYear {
		return errors.Newf(errors.ErrCodeYearOutOfRange,
			"year %d is before %d; the API only holds records from %d", year, b.MinYear, b.MinYear)
	}
	if latest := b.MaxYear(now); year > latest {
		return errors.Newf(errors.ErrCodeYearOutOfRange,
			"year %d is after %d; the API only holds records up to %d months before now",
			year, latest, b.PublicationLagMonths)
	}
	return nil
}

// CrosstabQuery parameterizes CrosstabByType.
type CrosstabQuery struct {
	// Year restricts the table to one submission year; 0 keeps every year.
	Year      int
	Normalize rtypes.Normalization
	// Bounds defaults to DefaultYearBounds when zero.
	Bounds YearBounds
	// Now defaults to time.Now when zero.
	Now time.Time
}

// CrosstabByType cross-tabulates submission year against the legacy document
// code (final vs non-final rejection).  Records without a document code are
// left out, so every row sums to the number of coded records of that year.
func CrosstabByType(ds rtypes.Dataset, q CrosstabQuery) (*rtypes.Crosstab, error) {
	if !q.Normalize.IsValid() {
		return nil, errors.Newf(errors.ErrCodeInvalidNormalization,
			"unknown crosstab normalization %q", q.Normalize).
			WithDetail("accepted: none, all, index, columns")
	}
	if q.Normalize == "" {
		q.Normalize = rtypes.NormalizeNone
	}
	if err := requireYears(ds, "crosstab"); err != nil {
		return nil, err
	}
	if q.Year != 0 {
		bounds := q.Bounds
		if bounds == (YearBounds{}) {
			bounds = DefaultYearBounds()
		}
		now := q.Now
		if now.IsZero() {
			now = time.Now()
		}
		if err := bounds.Check(q.Year, now); err != nil {
			return nil, err
		}
	}

	counts := make(map[int]map[rtypes.DocumentCode]int)
	codeSet := make(map[rtypes.DocumentCode]struct{})
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if r.LegacyDocumentCodeIdentifier == "" {
			continue
		}
		if q.Year != 0 && r.Year != q.Year {
			continue
		}
		row, ok := counts[r.Year]
		if !ok {
			row = make(map[rtypes.DocumentCode]int)
			counts[r.Year] = row
		}
		row[r.LegacyDocumentCodeIdentifier]++
		codeSet[r.LegacyDocumentCodeIdentifier] = struct{}{}
	}

	ct := &rtypes.Crosstab{Normalize: q.Normalize}
	for y := range counts {
		ct.Years = append(ct.Years, y)
	}
	sort.Ints(ct.Years)
	for c := range codeSet {
		ct.Codes = append(ct.Codes, c)
	}
	sort.Slice(ct.Codes, func(i, j int) bool { return ct.Codes[i] < ct.Codes[j] })

	ct.Values = make([][]float64, len(ct.Years))
	for i, y := range ct.Years {
		ct.Values[i] = make([]float64, len(ct.Codes))
		for j, c := range ct.Codes {
			ct.Values[i][j] = float64(counts[y][c])
		}
	}
	normalize(ct)
	return ct, nil
}

func normalize(ct *rtypes.Crosstab) {
	switch ct.Normalize {
	case rtypes.NormalizeAll:
		total := ct.Total()
		for i := range ct.Values {
			for j := range ct.Values[i] {
				ct.Values[i][j] = ratio(ct.Values[i][j], total)
			}
		}
	case rtypes.NormalizeIndex:
		for i := range ct.Values {
			var rowTotal float64
			for _, v := range ct.Values[i] {
				rowTotal += v
			}
			for j := range ct.Values[i] {
				ct.Values[i][j] = ratio(ct.Values[i][j], rowTotal)
			}
		}
	case rtypes.NormalizeColumns:
		colTotals := make([]float64, len(ct.Codes))
		for i := range ct.Values {
			for j, v := range ct.Values[i] {
				colTotals[j] += v
			}
		}
		for i := range ct.Values {
			for j := range ct.Values[i] {
				ct.Values[i][j] = ratio(ct.Values[i][j], colTotals[j])
			}
		}
	}
}

func ratio(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total
}
