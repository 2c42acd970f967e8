package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodedErrorMatchesKindAndItself(t *testing.T) {
	errNegative := New(ErrInvalidInput, "negative_amount")
	wrapped := fmt.Errorf("pricing: %w", errNegative)

	assert.True(t, errors.Is(wrapped, errNegative))
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
	assert.False(t, errors.Is(wrapped, ErrInvalidConfig))
	assert.Equal(t, "negative_amount", Code(wrapped))
	assert.Equal(t, "invalid_input: negative_amount", errNegative.Error())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(New(ErrInvalidInterval, "exit_before_entry")))
	assert.True(t, IsValidation(ErrInvalidConfig))
	assert.False(t, IsValidation(errors.New("boom")))
	assert.Equal(t, "", Code(errors.New("boom")))
}
