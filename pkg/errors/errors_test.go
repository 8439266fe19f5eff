package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeInvalidParam:          http.StatusBadRequest,
		CodeOutOfRange:            http.StatusBadRequest,
		CodeTooManyRequests:       http.StatusTooManyRequests,
		CodeInternalError:         http.StatusInternalServerError,
		CodeRuleTableError:        http.StatusInternalServerError,
		CodePlateGenerationFailed: http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := OutOfRange("year %d before epoch", 1800)
	wrapped := fmt.Errorf("generate: %w", base)

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsCode(wrapped, CodeOutOfRange))
	assert.False(t, IsCode(wrapped, CodeInvalidParam))
	assert.True(t, IsClientError(wrapped))
	assert.Equal(t, "year 1800 before epoch", AsAppError(wrapped).Message)
}

func TestAsAppErrorWrapsForeignErrors(t *testing.T) {
	appErr := AsAppError(stderrors.New("boom"))
	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.False(t, IsClientError(stderrors.New("boom")))
}

func TestWithDetailDoesNotMutateShared(t *testing.T) {
	d := ErrInvalidParam.WithDetail("facing")
	assert.Equal(t, "facing", d.Detail)
	assert.Empty(t, ErrInvalidParam.Detail)
}
