package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	empty := ""
	valid := "2026-11-02"
	invalid := "02/11/2026"

	got, err := ParseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDate(&valid)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), *got)

	_, err = ParseDate(&invalid)
	assert.Error(t, err)
}
