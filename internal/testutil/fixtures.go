package testutil

import (
	"fmt"
	"strings"
	"time"

	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// RecordBuilder assembles a rejection record for tests.
type RecordBuilder struct {
	r rtypes.Record
}

// NewRecord starts a record for application app submitted on date (YYYY-MM-DD).
func NewRecord(app, date string) *RecordBuilder {
	return &RecordBuilder{r: rtypes.Record{
		PatentApplicationNumber: app,
		SubmissionDate:          date + "T00:00:00",
	}}
}

func (b *RecordBuilder) Action(s string) *RecordBuilder {
	b.r.ActionTypeCategory = s
	return b
}

func (b *RecordBuilder) Code(c rtypes.DocumentCode) *RecordBuilder {
	b.r.LegacyDocumentCodeIdentifier = c
	return b
}

func (b *RecordBuilder) Flag(flags ...rtypes.FlagName) *RecordBuilder {
	for _, f := range flags {
		b.r.Flags = b.r.Flags.With(f)
	}
	return b
}

func (b *RecordBuilder) RawDate(s string) *RecordBuilder {
	b.r.SubmissionDate = s
	return b
}

func (b *RecordBuilder) Build() rtypes.Record { return b.r }

// Dataset wraps records in a Dataset with a fixed test source.
func Dataset(records ...rtypes.Record) rtypes.Dataset {
	return rtypes.NewDataset(records, rtypes.Source{
		RequestID:     "test-request",
		FetchedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		RequestedRows: len(records),
	})
}

// Doc renders one upstream JSON document.  flags maps flag names to raw JSON
// literals (1.0, true, "1", ...).
func Doc(app, submissionDate, action, code string, flags map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `{"patentApplicationNumber":%q,"submissionDate":%q,"actionTypeCategory":%q`,
		app, submissionDate, action)
	if code != "" {
		fmt.Fprintf(&sb, `,"legacyDocumentCodeIdentifier":%q`, code)
	}
	for _, f := range rtypes.Flags() {
		if v, ok := flags[string(f)]; ok {
			fmt.Fprintf(&sb, `,%q:%s`, string(f), v)
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// Response wraps documents in the upstream response envelope.
func Response(docs ...string) string {
	return fmt.Sprintf(`{"response":{"numFound":%d,"start":0,"docs":[%s]}}`,
		len(docs), strings.Join(docs, ","))
}
