package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt64ToStr(t *testing.T) {
	assert.Equal(t, "42", Int64ToStr(42))
	assert.Equal(t, "-7", Int64ToStr(-7))
}

func TestStrToInt64(t *testing.T) {
	id, err := StrToInt64("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = StrToInt64("not-a-number")
	assert.Error(t, err)
}

func TestNewNullString(t *testing.T) {
	assert.Nil(t, NewNullString(""))

	got := NewNullString("owner@example.com")
	require.NotNil(t, got)
	assert.Equal(t, "owner@example.com", *got)
}
