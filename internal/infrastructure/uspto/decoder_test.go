package uspto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Rejections/internal/testutil"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

func decodeFlag(t *testing.T, literal string) bool {
	t.Helper()
	body := testutil.Response(testutil.Doc("1", "2019-01-01", "", "", map[string]string{"headerMissing": literal}))
	records, err := DecodeRecords([]byte(body), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	return records[0].Flags.Has(rtypes.FlagHeaderMissing)
}

func TestDecodeRecords_FlagEncodingsAreEquivalent(t *testing.T) {
	for _, set := range []string{`1`, `1.0`, `true`, `"1"`, `[1.0]`, `["1"]`} {
		assert.True(t, decodeFlag(t, set), set)
	}
	for _, unset := range []string{`0`, `0.0`, `false`, `null`, `"0"`, `"yes"`, `2`, `[]`, `[1, 1]`,
		`"1.0"`, `"true"`, `" 1"`, `"TRUE"`} {
		assert.False(t, decodeFlag(t, unset), unset)
	}
}

func TestDecodeRecords_MissingFlagIsUnset(t *testing.T) {
	body := testutil.Response(testutil.Doc("1", "2019-01-01", "", "", nil))
	records, err := DecodeRecords([]byte(body), 10)
	require.NoError(t, err)
	assert.Empty(t, records[0].Flags.Names())
}

func TestDecodeRecords_EveryFlag(t *testing.T) {
	flags := map[string]string{}
	for _, f := range rtypes.Flags() {
		flags[string(f)] = "1.0"
	}
	body := testutil.Response(testutil.Doc("1", "2019-01-01", "", "", flags))
	records, err := DecodeRecords([]byte(body), 10)
	require.NoError(t, err)
	assert.Equal(t, rtypes.Flags(), records[0].Flags.Names())
}

func TestDecodeRecords_UnwrapsSingleElementArrays(t *testing.T) {
	body := `{"response":{"docs":[{
		"id":"abc",
		"patentApplicationNumber":["14983812"],
		"submissionDate":["2019-04-12T00:00:00"],
		"actionTypeCategory":["rejected"],
		"legacyDocumentCodeIdentifier":["CTFR"],
		"groupArtUnitNumber":[1611]
	}]}}`
	records, err := DecodeRecords([]byte(body), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "14983812", r.PatentApplicationNumber)
	assert.Equal(t, "2019-04-12T00:00:00", r.SubmissionDate)
	assert.Equal(t, "rejected", r.ActionTypeCategory)
	assert.Equal(t, rtypes.DocumentFinalRejection, r.LegacyDocumentCodeIdentifier)
	assert.Equal(t, "1611", r.GroupArtUnitNumber)
}

func TestDecodeRecords_NullCodeIsEmpty(t *testing.T) {
	body := `{"response":{"docs":[{"patentApplicationNumber":"1","legacyDocumentCodeIdentifier":null}]}}`
	records, err := DecodeRecords([]byte(body), 10)
	require.NoError(t, err)
	assert.Equal(t, rtypes.DocumentCode(""), records[0].LegacyDocumentCodeIdentifier)
}

func TestDecodeRecords_EmptyDocs(t *testing.T) {
	records, err := DecodeRecords([]byte(testutil.Response()), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeRecords_BadDocumentIndex(t *testing.T) {
	_, err := DecodeRecords([]byte(`{"response":{"docs":[{"id":"a"},"b"]}}`), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 1")
}
