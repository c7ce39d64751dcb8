package rejection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Rejections/internal/testutil"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
)

func TestExtractYear(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2019-04-12T00:00:00", 2019},
		{"2021-12-31T23:59:59.000+0000", 2021},
		{"2018-01-01", 2018},
	}
	for _, tc := range cases {
		got, err := ExtractYear(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestExtractYear_Malformed(t *testing.T) {
	for _, in := range []string{"", "2019", "2019/04/12T00:00:00", "12-04-2019", "2019-13-01T00:00:00", "not a date"} {
		_, err := ExtractYear(in)
		require.Error(t, err, in)
		assert.True(t, errors.IsParseError(err), in)
	}
}

func TestWithYear_AttachesYears(t *testing.T) {
	ds := testutil.Dataset(
		testutil.NewRecord("14983812", "2019-04-12").Build(),
		testutil.NewRecord("15000001", "2021-07-01").Build(),
	)

	out, err := WithYear(ds)
	require.NoError(t, err)

	assert.True(t, out.YearsExtracted())
	assert.False(t, ds.YearsExtracted(), "source dataset must not change")
	require.Equal(t, 2, out.Len())
	assert.Equal(t, 2019, out.At(0).Year)
	assert.Equal(t, 2021, out.At(1).Year)
	assert.Equal(t, 0, ds.At(0).Year)
	assert.Equal(t, ds.Source(), out.Source())
}

func TestWithYear_AbortsOnFirstBadDate(t *testing.T) {
	ds := testutil.Dataset(
		testutil.NewRecord("14983812", "2019-04-12").Build(),
		testutil.NewRecord("15000001", "").RawDate("04/12/2019").Build(),
		testutil.NewRecord("15000002", "2020-01-01").Build(),
	)

	out, err := WithYear(ds)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.Contains(t, err.Error(), "15000001")
	assert.Contains(t, err.Error(), "04/12/2019")
	assert.Equal(t, 0, out.Len(), "no partial result")
}

func TestWithYear_EmptyDataset(t *testing.T) {
	out, err := WithYear(testutil.Dataset())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.True(t, out.YearsExtracted())
}
