package errors

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestSyncErrorIsSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindBadResponse, ErrBadResponse},
		{KindMalformedPayload, ErrMalformedPayload},
		{KindTimeout, ErrTimeout},
		{KindUnreachable, ErrUnreachable},
		{KindCanceled, ErrCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewSyncError(tt.kind, "fetch courses", nil))
			assert.ErrorIs(t, err, tt.sentinel)
			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestSyncErrorMessage(t *testing.T) {
	err := &SyncError{
		Kind:       KindBadResponse,
		Op:         "fetch courses",
		URL:        "http://127.0.0.1:8000/api/courses",
		StatusCode: 503,
	}
	assert.Equal(t, "fetch courses: bad_response (status 503) http://127.0.0.1:8000/api/courses", err.Error())
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify("op", "", nil))

	assert.Equal(t, KindTimeout, Classify("op", "", context.DeadlineExceeded).Kind)
	assert.Equal(t, KindCanceled, Classify("op", "", context.Canceled).Kind)
	assert.Equal(t, KindTimeout, Classify("op", "", &timeoutError{}).Kind)
	assert.Equal(t, KindUnreachable, Classify("op", "", io.ErrUnexpectedEOF).Kind)

	original := NewSyncError(KindMalformedPayload, "decode", nil)
	assert.Same(t, original, Classify("other", "", fmt.Errorf("x: %w", original)))
}

func TestRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewSyncError(KindTimeout, "op", nil)))
	assert.True(t, IsRetryable(NewSyncError(KindUnreachable, "op", nil)))
	assert.False(t, IsRetryable(NewSyncError(KindMalformedPayload, "op", nil)))
	assert.False(t, IsRetryable(NewSyncError(KindCanceled, "op", nil)))
	assert.True(t, IsRetryable(&SyncError{Kind: KindBadResponse, StatusCode: http.StatusBadGateway}))
	assert.True(t, IsRetryable(&SyncError{Kind: KindBadResponse, StatusCode: http.StatusTooManyRequests}))
	assert.False(t, IsRetryable(&SyncError{Kind: KindBadResponse, StatusCode: http.StatusNotFound}))
	assert.False(t, IsRetryable(io.EOF))
}

func TestNotFoundAndValidation(t *testing.T) {
	assert.ErrorIs(t, NewNotFoundError("course", "CS 2110"), ErrNotFound)
	assert.ErrorIs(t, NewValidationError("code", "", "required"), ErrInvalidInput)
	assert.Equal(t, "validation failed for field code: required", NewValidationError("code", "", "required").Error())
}

func TestWrapIO(t *testing.T) {
	assert.NoError(t, WrapIO("read", "state.yaml", nil))

	err := WrapIO("write", "state.yaml", io.ErrShortWrite)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, "write state.yaml: short write", err.Error())
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("gateway", "base url is required", nil)
	assert.Equal(t, "configuration error in gateway: base url is required", err.Error())
}
