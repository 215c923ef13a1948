package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "ErrKeyNotFound",
			err:      ErrKeyNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrKeyNotFound",
			err:      fmt.Errorf("failed to read flashcards: %w", ErrKeyNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping ErrKeyNotFound",
			err:      NewStoreError(KeyFolders, "get", "missing", ErrKeyNotFound),
			expected: true,
		},
		{
			name:     "ErrCorrupt",
			err:      ErrCorrupt,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	err := NewStoreError(KeyFlashcards, "set", "disk full", ErrWriteFailed)
	assert.Equal(t, `set operation on "flashcards" failed: disk full: write failed`, err.Error())
	assert.ErrorIs(t, err, ErrWriteFailed)

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &storeErr))
	assert.Equal(t, "set", storeErr.Operation)

	bare := NewStoreError(KeyFolders, "get", "boom", nil)
	assert.Equal(t, `get operation on "folders" failed: boom`, bare.Error())
}
