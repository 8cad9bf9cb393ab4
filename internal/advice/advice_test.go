package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels_HealthyFirstAndClosed(t *testing.T) {
	require.Len(t, Labels, 10)
	assert.Equal(t, "Healthy", Labels[0])
	assert.Equal(t, "Bacterial Spot", Labels[1])
}

func TestDefaultTable_CoversEveryLabel(t *testing.T) {
	table := DefaultTable()
	for _, label := range Labels {
		recs, ok := table[label]
		assert.True(t, ok, "missing advice for %q", label)
		assert.NotEmpty(t, recs)
	}
}

func TestFor_KnownLabel(t *testing.T) {
	recs := DefaultTable().For("Healthy")

	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "healthy")
}

func TestFor_UnknownLabelReturnsDefault(t *testing.T) {
	recs := DefaultTable().For("Chlorosis")

	require.Len(t, recs, 3)
	assert.Contains(t, recs[0], "plant pathologist")
}

func TestFor_EmptyTableNeverFails(t *testing.T) {
	recs := Table{}.For("Healthy")

	assert.NotEmpty(t, recs)
}
