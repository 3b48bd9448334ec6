package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	err := errors.New(errors.ErrCodeBatchNotFound, "batch not found")
	assert.Equal(t, "[CLS_001] batch not found", err.Error())

	withDetail := err.WithDetail("id=abc123")
	assert.Equal(t, "[CLS_001] batch not found: id=abc123", withDetail.Error())
	// Original is not mutated.
	assert.Equal(t, "", err.Detail)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeDatabaseError, "query failed"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeCatalogLoadFailed, "catalog load failed")
	wrapped := errors.Wrap(inner, errors.CodeUnknown, "reload aborted")
	assert.Equal(t, errors.ErrCodeCatalogLoadFailed, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, wrapped))
	assert.ErrorIs(t, wrapped, inner)
}

func TestIsCode_TraversesChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeResearchProviderError, "provider 502")
	outer := fmt.Errorf("classify item: %w", errors.Wrap(inner, errors.ErrCodeClassificationFailed, "item failed"))

	assert.True(t, errors.IsCode(outer, errors.ErrCodeClassificationFailed))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeResearchProviderError))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeBatchNotFound))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("gone")))
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeItemNotFound, "item gone")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeConflict, errors.GetCode(errors.Conflict("dup")))
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.ErrCodeBadRequest, http.StatusBadRequest},
		{errors.ErrCodeBatchNotFound, http.StatusNotFound},
		{errors.ErrCodeBatchAlreadyClosed, http.StatusConflict},
		{errors.ErrCodeUploadObjectTooLarge, http.StatusRequestEntityTooLarge},
		{errors.ErrCodeResearchQuotaExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.code.HTTPStatus(), string(tc.code))
	}
}

func TestErrorCode_Module(t *testing.T) {
	t.Parallel()

	require.Equal(t, "CLS", errors.ErrCodeItemNotFound.Module())
	require.Equal(t, "CAT", errors.ErrCodeCatalogEmpty.Module())
	require.Equal(t, "COMMON", errors.ErrCodeInternal.Module())
}

//Personal.AI order the ending
