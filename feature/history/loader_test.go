package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, zap.NewNop())

	assert.Equal(t, "history", feature.Name())
	// Without a database the feature stays off and the loader skips it.
	assert.False(t, feature.IsEnabled())
}

func TestLoaderEnabledWithDB(t *testing.T) {
	db, _ := setupMockDB(t)
	feature := NewFeature(db, zap.NewNop())
	assert.True(t, feature.IsEnabled())
}
