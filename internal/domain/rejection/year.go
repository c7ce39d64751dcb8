package rejection

import (
	"fmt"
	"time"

	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// submissionDateLayout is matched against the first ten characters of
// submissionDate; the trailing time/zone component is ignored.
const (
	submissionDateLayout = "2006-01-02"
	submissionDatePrefix = 10
)

// ExtractYear returns the year of a raw submissionDate value such as
// "2019-04-12T00:00:00Z".
func ExtractYear(submissionDate string) (int, error) {
	prefix := submissionDate
	if len(prefix) > submissionDatePrefix {
		prefix = prefix[:submissionDatePrefix]
	}
	t, err := time.Parse(submissionDateLayout, prefix)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDateParse,
			fmt.Sprintf("submission date %q does not match YYYY-MM-DD", submissionDate))
	}
	return t.Year(), nil
}

// WithYear attaches the derived year to every record of ds.  A single
// malformed date aborts the whole operation: no partial dataset is returned.
func WithYear(ds rtypes.Dataset) (rtypes.Dataset, error) {
	records := ds.Records()
	for i := range records {
		year, err := ExtractYear(records[i].SubmissionDate)
		if err != nil {
			return rtypes.Dataset{}, errors.Wrap(err, errors.ErrCodeDateParse,
				fmt.Sprintf("record %d (application %s) has an unparseable submission date",
					i, records[i].PatentApplicationNumber)).
				WithDetail(records[i].SubmissionDate)
		}
		records[i].Year = year
	}
	return ds.WithYearsExtracted(records), nil
}

func requireYears(ds rtypes.Dataset, view string) error {
	if ds.YearsExtracted() {
		return nil
	}
	return errors.Newf(errors.ErrCodeYearsNotExtracted, "%s needs submission years; run WithYear first", view)
}
