package uspto

import (
	"github.com/tidwall/gjson"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// docsPath locates the record array inside the upstream envelope.
const docsPath = "response.docs"

// DecodeRecords decodes the upstream response body into at most maxRows
// records.  Flags are canonicalized here so that no downstream code sees the
// upstream's mixed encodings.
func DecodeRecords(body []byte, maxRows int) ([]rtypes.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.ErrCodeUpstreamPayload, "upstream response is not valid JSON").
			WithDetail(truncate(string(body), errorBodyLimit))
	}
	docs := gjson.GetBytes(body, docsPath)
	if !docs.IsArray() {
		return nil, errors.Newf(errors.ErrCodeUpstreamPayload, "upstream response has no %s array", docsPath)
	}

	var (
		records []rtypes.Record
		bad     = -1
		index   int
	)
	docs.ForEach(func(_, doc gjson.Result) bool {
		if len(records) == maxRows {
			return false
		}
		if !doc.IsObject() {
			bad = index
			return false
		}
		records = append(records, decodeRecord(doc))
		index++
		return true
	})
	if bad >= 0 {
		return nil, errors.Newf(errors.ErrCodeUpstreamPayload, "document %d of %s is not an object", bad, docsPath)
	}
	return records, nil
}

func decodeRecord(doc gjson.Result) rtypes.Record {
	r := rtypes.Record{
		ID:                           field(doc, "id").String(),
		PatentApplicationNumber:      field(doc, "patentApplicationNumber").String(),
		SubmissionDate:               field(doc, "submissionDate").String(),
		ActionTypeCategory:           field(doc, "actionTypeCategory").String(),
		LegacyDocumentCodeIdentifier: rtypes.DocumentCode(field(doc, "legacyDocumentCodeIdentifier").String()),
		GroupArtUnitNumber:           field(doc, "groupArtUnitNumber").String(),
	}
	for _, f := range rtypes.Flags() {
		if flagSet(field(doc, string(f))) {
			r.Flags = r.Flags.With(f)
		}
	}
	return r
}

// field returns the scalar value of key.  Single-element arrays are
// unwrapped; longer arrays decode as absent.
func field(doc gjson.Result, key string) gjson.Result {
	v := doc.Get(key)
	if !v.IsArray() {
		return v
	}
	if arr := v.Array(); len(arr) == 1 {
		return arr[0]
	}
	return gjson.Result{}
}

// flagSet canonicalizes one flag value: numeric 1, true and the exact string
// "1" are set; everything else, including "1.0", "true", null and absent,
// is unset.
func flagSet(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num == 1
	case gjson.String:
		return v.Str == "1"
	}
	return false
}
