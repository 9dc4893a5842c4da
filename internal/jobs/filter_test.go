package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibe-jobs-gateway/pkg/models"
)

var filterNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestComputeDateCutoff(t *testing.T) {
	cutoff, ok := ComputeDateCutoff("3", filterNow)
	require.True(t, ok)
	assert.Equal(t, filterNow.UnixMilli()-3*24*60*60*1000, cutoff)

	for _, bad := range []string{"", "0", "-2", "abc", "NaN"} {
		_, ok := ComputeDateCutoff(bad, filterNow)
		assert.False(t, ok, "daysValue %q should not produce a cutoff", bad)
	}
}

func TestFilterJobsByDate(t *testing.T) {
	recent := models.Job{ID: "1", PostedAt: filterNow.AddDate(0, 0, -1).Format(time.RFC3339)}
	old := models.Job{ID: "2", PostedAt: filterNow.AddDate(0, 0, -5).Format(time.RFC3339)}
	unparseable := models.Job{ID: "3", PostedAt: "not a date"}
	items := []models.Job{recent, old, unparseable}

	cutoff, ok := ComputeDateCutoff("3", filterNow)
	require.True(t, ok)

	filtered := FilterJobsByDate(items, cutoff)
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)
}

func TestFilterJobsByDate_NoCutoffReturnsSameSlice(t *testing.T) {
	items := []models.Job{{ID: "1"}, {ID: "2"}}
	filtered := FilterJobsByDate(items, 0)
	assert.Same(t, &items[0], &filtered[0], "no-cutoff filtering must not copy")
	assert.Len(t, filtered, 2)
}

func TestFilterJobsByDate_BoundaryInclusive(t *testing.T) {
	cutoff, ok := ComputeDateCutoff("3", filterNow)
	require.True(t, ok)

	exact := models.Job{ID: "1", PostedAt: time.UnixMilli(cutoff).UTC().Format(time.RFC3339)}
	filtered := FilterJobsByDate([]models.Job{exact}, cutoff)
	assert.Len(t, filtered, 1)
}
