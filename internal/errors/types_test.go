package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempleErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *TempleError
		contains []string
	}{
		{
			name:     "code and message",
			err:      NewValidationError("ERR_X", "bad input"),
			contains: []string{"[ERR_X]", "bad input"},
		},
		{
			name:     "with file and component",
			err:      NewConfigError("ERR_Y", "bad config").WithFile("zen-temple.yaml").WithComponent("counter"),
			contains: []string{"[ERR_Y]", "component:counter", "zen-temple.yaml", "bad config"},
		},
		{
			name:     "with cause",
			err:      NewIOError("ERR_Z", "read failed", os.ErrNotExist),
			contains: []string{"read failed", os.ErrNotExist.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, part := range tt.contains {
				assert.Contains(t, msg, part)
			}
		})
	}
}

func TestTempleErrorUnwrapAndIs(t *testing.T) {
	err := ErrComponentRead("missing.html", os.ErrNotExist)

	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, errors.Is(err, &TempleError{Type: ErrorTypeIO, Code: ErrCodeComponentRead}))
	assert.False(t, errors.Is(err, &TempleError{Type: ErrorTypeConfig, Code: ErrCodeComponentRead}))

	wrapped := fmt.Errorf("validate: %w", err)
	var te *TempleError
	require.True(t, errors.As(wrapped, &te))
	assert.Equal(t, "missing.html", te.FilePath)
}

func TestTypeHelpers(t *testing.T) {
	assert.True(t, IsIOError(ErrFileWrite("a", nil)))
	assert.False(t, IsIOError(errors.New("plain")))
	assert.True(t, IsConfigError(NewConfigError(ErrCodeConfigInvalid, "x")))
	assert.True(t, IsRecoverable(NewTemplateError(ErrCodeTemplateRender, "x", nil)))
	assert.False(t, IsRecoverable(NewInternalError(ErrCodeInternalError, "x", nil)))
	assert.False(t, IsRecoverable(errors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := ErrComponentNotFound("card").WithContext("dir", "templates")

	assert.Equal(t, "templates", err.Context["dir"])
	assert.Equal(t, ErrorTypeValidation, err.Type)
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)
	ctx := context.Background()

	handler.Handle(ctx, nil)
	handler.Handle(ctx, NewTemplateError(ErrCodeTemplateRender, "render", nil))
	handler.Handle(ctx, NewIOError(ErrCodeFileWrite, "write", nil))
	handler.Handle(ctx, errors.New("plain"))

	assert.Len(t, logger.warns, 1)
	assert.Len(t, logger.errors, 2)
}
