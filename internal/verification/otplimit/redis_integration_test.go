//go:build integration

package otplimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/testutil/containers"
)

func TestRedisLimiterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	defer rc.Container.Terminate(context.Background())

	ctx := context.Background()
	limiter := NewRedisLimiter(rc.Client, 3, time.Minute)
	userID := id.NewUserID()

	for i := 1; i <= 3; i++ {
		count, err := limiter.Allow(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	_, err := limiter.Allow(ctx, userID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	// A fresh user has an untouched budget.
	count, err := limiter.Allow(ctx, id.NewUserID())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, rc.FlushAll(ctx))
	count, err = limiter.Allow(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
