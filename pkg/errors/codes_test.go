package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForCode(t *testing.T) {
	assert.Equal(t, KindInput, KindForCode(ErrCodeUnknownFlag))
	assert.Equal(t, KindRequest, KindForCode(ErrCodeUpstreamStatus))
	assert.Equal(t, KindParse, KindForCode(ErrCodeDateParse))
	assert.Equal(t, KindCommon, KindForCode(ErrCodeInternal))
	assert.Equal(t, KindCommon, KindForCode(CodeUnknown))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "INP", ModuleForCode(ErrCodeYearOutOfRange))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "UNKNOWN", ModuleForCode(""))
}

func TestDefaultMessageForCode(t *testing.T) {
	for code := range ErrorCodeMessage {
		assert.NotEqual(t, "unknown error", DefaultMessageForCode(code), code)
	}
	assert.Equal(t, "unknown error", DefaultMessageForCode("NOPE_999"))
}
