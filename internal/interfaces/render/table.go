package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// RenderCrosstab writes ct as a table with one row per year, one column per
// document code and a trailing total row and column.
func RenderCrosstab(w io.Writer, ct *rtypes.Crosstab) error {
	if ct == nil {
		return errors.Internal("render: nil crosstab")
	}
	format := cellFormatter(ct.Normalize)

	header := []string{"Year"}
	for _, code := range ct.Codes {
		header = append(header, string(code))
	}
	header = append(header, "Total")

	table := newTable(w)
	table.SetHeader(header)
	for i, year := range ct.Years {
		row := []string{strconv.Itoa(year)}
		for _, v := range ct.Values[i] {
			row = append(row, format(v))
		}
		row = append(row, format(ct.RowTotal(year)))
		table.Append(row)
	}

	footer := []string{"Total"}
	for _, code := range ct.Codes {
		footer = append(footer, format(ct.ColumnTotal(code)))
	}
	footer = append(footer, format(ct.Total()))
	table.SetFooter(footer)

	table.Render()
	return nil
}

// RenderLabelSummary writes one row per action-type value with its count.
func RenderLabelSummary(w io.Writer, counts []rtypes.LabelCount) {
	table := newTable(w)
	table.SetHeader([]string{"Action Type", "Records"})
	for _, lc := range counts {
		table.Append([]string{lc.Label, strconv.Itoa(lc.Count)})
	}
	table.Render()
}

// RenderRecords writes one row per record of ds.
func RenderRecords(w io.Writer, ds rtypes.Dataset) {
	table := newTable(w)
	table.SetHeader([]string{"Application", "Submitted", "Year", "Action Type", "Code", "Flags"})
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		year := ""
		if ds.YearsExtracted() {
			year = strconv.Itoa(r.Year)
		}
		flags := make([]string, 0, len(r.Flags.Names()))
		for _, f := range r.Flags.Names() {
			flags = append(flags, string(f))
		}
		table.Append([]string{
			r.PatentApplicationNumber,
			r.SubmissionDate,
			year,
			r.ActionTypeCategory,
			string(r.LegacyDocumentCodeIdentifier),
			strings.Join(flags, " "),
		})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func cellFormatter(n rtypes.Normalization) func(float64) string {
	if n == "" || n == rtypes.NormalizeNone {
		return func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
	}
	return func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
}
