// Package rejection defines the public data model for office-action rejection
// records: the record itself, the closed sets of flag and category names,
// the canonical action-type labels and the derived tables.
package rejection

import (
	"sort"
	"strings"
	"time"

	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
)

// DocumentCode is the legacy document code of an office action.
type DocumentCode string

const (
	// DocumentFinalRejection marks a final rejection.
	DocumentFinalRejection DocumentCode = "CTFR"
	// DocumentNonFinalRejection marks a non-final rejection.
	DocumentNonFinalRejection DocumentCode = "CTNF"
)

// IsFinal reports whether the code marks a final rejection.
func (c DocumentCode) IsFinal() bool { return c == DocumentFinalRejection }

// ─────────────────────────────────────────────────────────────────────────────
// Flags
// ─────────────────────────────────────────────────────────────────────────────

// FlagName names one of the rejection-reason flags carried by every record.
type FlagName string

const (
	FlagHeaderMissing        FlagName = "headerMissing"
	FlagFormParagraphMissing FlagName = "formParagraphMissing"
	FlagRejectFormMissmatch  FlagName = "rejectFormMissmatch"
	FlagClosingMissing       FlagName = "closingMissing"
	FlagHasRej101            FlagName = "hasRej101"
	FlagHasRejDP             FlagName = "hasRejDP"
	FlagHasRej102            FlagName = "hasRej102"
	FlagHasRej103            FlagName = "hasRej103"
	FlagHasRej112            FlagName = "hasRej112"
	FlagHasObjection         FlagName = "hasObjection"
	FlagCite102GT1           FlagName = "cite102GT1"
	FlagCite103GT3           FlagName = "cite103GT3"
	FlagCite103EQ1           FlagName = "cite103EQ1"
	FlagCite103Max           FlagName = "cite103Max"
)

// allFlags fixes the bit position of each flag inside a FlagSet.
var allFlags = [...]FlagName{
	FlagHeaderMissing,
	FlagFormParagraphMissing,
	FlagRejectFormMissmatch,
	FlagClosingMissing,
	FlagHasRej101,
	FlagHasRejDP,
	FlagHasRej102,
	FlagHasRej103,
	FlagHasRej112,
	FlagHasObjection,
	FlagCite102GT1,
	FlagCite103GT3,
	FlagCite103EQ1,
	FlagCite103Max,
}

// Flags returns every known flag name in upstream field order.
func Flags() []FlagName {
	out := make([]FlagName, len(allFlags))
	copy(out, allFlags[:])
	return out
}

func (f FlagName) bit() (uint16, bool) {
	for i, known := range allFlags {
		if known == f {
			return 1 << uint(i), true
		}
	}
	return 0, false
}

// IsValid checks if the FlagName belongs to the closed set.
func (f FlagName) IsValid() bool {
	_, ok := f.bit()
	return ok
}

// ParseFlagName validates s against the closed flag set.
func ParseFlagName(s string) (FlagName, error) {
	f := FlagName(s)
	if !f.IsValid() {
		names := make([]string, len(allFlags))
		for i, known := range allFlags {
			names[i] = string(known)
		}
		return "", errors.Newf(errors.ErrCodeUnknownFlag, "unknown rejection flag %q", s).
			WithDetail("accepted: " + strings.Join(names, ", "))
	}
	return f, nil
}

// FlagSet holds the canonical set/unset state of every flag of a record.
// The zero value has every flag unset.
type FlagSet uint16

// Has reports whether flag f is set.  Unknown names are never set.
func (s FlagSet) Has(f FlagName) bool {
	b, ok := f.bit()
	return ok && s&FlagSet(b) != 0
}

// With returns a copy of s with flag f set.  Unknown names are ignored.
func (s FlagSet) With(f FlagName) FlagSet {
	if b, ok := f.bit(); ok {
		return s | FlagSet(b)
	}
	return s
}

// Names returns the set flags in upstream field order.
func (s FlagSet) Names() []FlagName {
	var out []FlagName
	for _, f := range allFlags {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Categories and labels
// ─────────────────────────────────────────────────────────────────────────────

// Category names an action-type category selectable in detection mode.
type Category string

const (
	CategoryReject    Category = "reject"
	CategoryWithdraw  Category = "withdraw"
	CategoryCancel    Category = "cancel"
	CategoryObject    Category = "object"
	CategoryAllowed   Category = "allowed"
	CategoryAllowable Category = "allowable"
	CategoryInterpret Category = "interpret"
)

// Categories returns the closed category set.
func Categories() []Category {
	return []Category{
		CategoryReject, CategoryWithdraw, CategoryCancel, CategoryObject,
		CategoryAllowed, CategoryAllowable, CategoryInterpret,
	}
}

// IsValid checks if the Category belongs to the closed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryReject, CategoryWithdraw, CategoryCancel, CategoryObject,
		CategoryAllowed, CategoryAllowable, CategoryInterpret:
		return true
	default:
		return false
	}
}

// ParseCategory validates s against the closed category set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", errors.Newf(errors.ErrCodeUnknownCategory, "unknown action type category %q", s).
			WithDetail("accepted: reject, withdraw, cancel, object, allowed, allowable, interpret")
	}
	return c, nil
}

// Label is a canonical action-type value produced by rewrite mode.
type Label string

const (
	LabelRejected            Label = "Rejected"
	LabelObjection           Label = "Objection"
	LabelWithdrawn           Label = "Withdrawn"
	LabelCancelled           Label = "Cancelled"
	LabelInterpretationIssue Label = "Interpretation Issue"
	LabelAllowed             Label = "Allowed"
	LabelAllowableIfResolved Label = "Allowable if objection resolved"
)

// Labels returns the canonical taxonomy in rewrite-rule order.
func Labels() []Label {
	return []Label{
		LabelRejected, LabelObjection, LabelWithdrawn, LabelCancelled,
		LabelInterpretationIssue, LabelAllowed, LabelAllowableIfResolved,
	}
}

// IsCanonicalLabel reports whether s equals one of the canonical labels.
func IsCanonicalLabel(s string) bool {
	for _, l := range Labels() {
		if string(l) == s {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Record and Dataset
// ─────────────────────────────────────────────────────────────────────────────

// Record is one examiner-action event.  Several records may share an
// application number.
type Record struct {
	ID                           string       `json:"id,omitempty"`
	PatentApplicationNumber      string       `json:"patentApplicationNumber"`
	SubmissionDate               string       `json:"submissionDate"`
	ActionTypeCategory           string       `json:"actionTypeCategory"`
	LegacyDocumentCodeIdentifier DocumentCode `json:"legacyDocumentCodeIdentifier,omitempty"`
	GroupArtUnitNumber           string       `json:"groupArtUnitNumber,omitempty"`
	Flags                        FlagSet      `json:"-"`

	// Year is derived from SubmissionDate; 0 until years are extracted.
	Year int `json:"year,omitempty"`
}

// Source describes the upstream request a Dataset was materialized from.
type Source struct {
	RequestID     string    `json:"request_id"`
	FetchedAt     time.Time `json:"fetched_at"`
	RequestedRows int       `json:"requested_rows"`
}

// Dataset is an ordered, read-only collection of records.  Derived views
// always build a new Dataset; the records slice is never shared with callers.
type Dataset struct {
	records        []Record
	yearsExtracted bool
	source         Source
}

// NewDataset copies records into a new Dataset.
func NewDataset(records []Record, source Source) Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return Dataset{records: cp, source: source}
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// At returns the record at index i.
func (d Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of the records.
func (d Dataset) Records() []Record {
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Source returns the upstream descriptor.
func (d Dataset) Source() Source { return d.source }

// YearsExtracted reports whether every record carries a derived year.
func (d Dataset) YearsExtracted() bool { return d.yearsExtracted }

// Derive builds a new Dataset from records, keeping the source descriptor and
// the year-extraction state of d.  records is copied.
func (d Dataset) Derive(records []Record) Dataset {
	out := NewDataset(records, d.source)
	out.yearsExtracted = d.yearsExtracted
	return out
}

// WithYearsExtracted returns d with the year-extraction state set.  It is used
// by the year extractor after every record has been assigned a year.
func (d Dataset) WithYearsExtracted(records []Record) Dataset {
	out := NewDataset(records, d.source)
	out.yearsExtracted = true
	return out
}

// Filter returns the records for which keep returns true.
func (d Dataset) Filter(keep func(Record) bool) Dataset {
	var out []Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return d.Derive(out)
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregates
// ─────────────────────────────────────────────────────────────────────────────

// YearCount is one (year, count) pair of a time series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// LabelCount is the number of records carrying one action-type value.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Normalization selects how crosstab cells are expressed.
type Normalization string

const (
	// NormalizeNone keeps raw counts.
	NormalizeNone Normalization = "none"
	// NormalizeAll divides every cell by the grand total.
	NormalizeAll Normalization = "all"
	// NormalizeIndex divides every cell by its row total.
	NormalizeIndex Normalization = "index"
	// NormalizeColumns divides every cell by its column total.
	NormalizeColumns Normalization = "columns"
)

// IsValid checks if the Normalization is supported.  The empty value means none.
func (n Normalization) IsValid() bool {
	switch n {
	case "", NormalizeNone, NormalizeAll, NormalizeIndex, NormalizeColumns:
		return true
	default:
		return false
	}
}

// Crosstab is a contingency table of submission year × document code.
type Crosstab struct {
	Years     []int          `json:"years"`
	Codes     []DocumentCode `json:"codes"`
	Values    [][]float64    `json:"values"`
	Normalize Normalization  `json:"normalize"`
}

// Value returns the cell for (year, code) and whether it exists.
func (c *Crosstab) Value(year int, code DocumentCode) (float64, bool) {
	row := sort.SearchInts(c.Years, year)
	if row >= len(c.Years) || c.Years[row] != year {
		return 0, false
	}
	for col, k := range c.Codes {
		if k == code {
			return c.Values[row][col], true
		}
	}
	return 0, false
}

// RowTotal sums the cells of year's row.
func (c *Crosstab) RowTotal(year int) float64 {
	var sum float64
	for _, code := range c.Codes {
		v, _ := c.Value(year, code)
		sum += v
	}
	return sum
}

// ColumnTotal sums the cells of code's column.
func (c *Crosstab) ColumnTotal(code DocumentCode) float64 {
	var sum float64
	for _, y := range c.Years {
		v, _ := c.Value(y, code)
		sum += v
	}
	return sum
}

// Total sums every cell.
func (c *Crosstab) Total() float64 {
	var sum float64
	for _, row := range c.Values {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}
