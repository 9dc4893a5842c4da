package jobs

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCursorValue_Deterministic(t *testing.T) {
	first, ok := EncodeCursorValue("2024-01-05T00:00:00Z", "42")
	require.True(t, ok)
	second, ok := EncodeCursorValue("2024-01-05T00:00:00Z", "42")
	require.True(t, ok)
	assert.Equal(t, first, second)

	differentID, ok := EncodeCursorValue("2024-01-05T00:00:00Z", "43")
	require.True(t, ok)
	assert.NotEqual(t, first, differentID)

	differentTime, ok := EncodeCursorValue("2024-01-06T00:00:00Z", "42")
	require.True(t, ok)
	assert.NotEqual(t, first, differentTime)
}

func TestEncodeCursorValue_Payload(t *testing.T) {
	cursor, ok := EncodeCursorValue("2024-01-05T00:00:00Z", "42")
	require.True(t, ok)

	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	require.NoError(t, err)
	assert.Equal(t, "1704412800000:42", string(decoded))
}

func TestEncodeCursorValue_URLSafe(t *testing.T) {
	cursor, ok := EncodeCursorValue("2031-08-19T03:14:07Z", "987654321")
	require.True(t, ok)
	assert.NotContains(t, cursor, "+")
	assert.NotContains(t, cursor, "/")
	assert.NotContains(t, cursor, "=")
}

func TestEncodeCursorValue_RejectsBadInput(t *testing.T) {
	_, ok := EncodeCursorValue("not a date", "42")
	assert.False(t, ok)

	_, ok = EncodeCursorValue("2024-01-05T00:00:00Z", "abc")
	assert.False(t, ok)

	_, ok = EncodeCursorValue("", "")
	assert.False(t, ok)
}
