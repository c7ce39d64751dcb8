package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Rejections/internal/testutil"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("fetched rejection records", logging.Int("records", 3))
	logger.Error("operation failed")

	messages := logger.GetMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "fetched rejection records", messages[0].Message)

	assert.True(t, logger.HasMessage("error", "operation failed"))
	assert.False(t, logger.HasMessage("info", "operation failed"))

	v, ok := logger.FieldValue("fetched rejection records", "records")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = logger.FieldValue("fetched rejection records", "duration")
	assert.False(t, ok)
}

func TestMockLogger_WithAndNamedShareEntries(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Named("rejections").With(logging.String("op", "load")).Warn("operation rejected")

	assert.True(t, logger.HasMessage("warn", "operation rejected"))
	assert.NoError(t, logger.Sync())
}

func TestFixtures(t *testing.T) {
	r := testutil.NewRecord("14983812", "2020-03-02").
		Action("rejection").
		Code(rtypes.DocumentNonFinalRejection).
		Flag(rtypes.FlagHasRej103).
		Build()

	assert.Equal(t, "2020-03-02T00:00:00", r.SubmissionDate)
	assert.True(t, r.Flags.Has(rtypes.FlagHasRej103))

	ds := testutil.Dataset(r)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 1, ds.Source().RequestedRows)

	body := testutil.Response(testutil.Doc("1", "2020-01-01", "reject", "", map[string]string{"hasRej101": "true"}))
	assert.Contains(t, body, `"numFound":1`)
	assert.Contains(t, body, `"hasRej101":true`)
	assert.NotContains(t, body, "legacyDocumentCodeIdentifier")
}
