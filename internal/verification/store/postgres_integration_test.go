//go:build integration

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/testutil/containers"
)

func TestPostgresStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pg := containers.NewPostgresContainer(t)
	defer pg.Container.Terminate(context.Background())

	store := NewPostgres(pg.DB)
	ctx := context.Background()

	t.Run("GetOrCreate is idempotent", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		userID := id.NewUserID()

		first, err := store.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, first.Status)

		second, err := store.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
	})

	t.Run("Mutate persists sub-check transitions", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		userID := id.NewUserID()

		for _, check := range []models.SubCheck{
			models.SubCheckEmail, models.SubCheckPhone,
			models.SubCheckID, models.SubCheckSelfie,
		} {
			_, err := store.Mutate(ctx, userID, func(ctx context.Context, record *models.Record) error {
				return record.SetSubCheck(check, true, record.UpdatedAt)
			})
			require.NoError(t, err)
		}

		record, err := store.Find(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, record.Status)
		assert.Equal(t, models.BadgeVerified, record.TrustBadge)
		assert.True(t, record.AllChecksComplete())
	})

	t.Run("Mutate serializes concurrent writers", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		userID := id.NewUserID()

		var wg sync.WaitGroup
		errs := make(chan error, 4)
		for _, check := range []models.SubCheck{
			models.SubCheckEmail, models.SubCheckPhone,
			models.SubCheckID, models.SubCheckSelfie,
		} {
			wg.Add(1)
			go func(check models.SubCheck) {
				defer wg.Done()
				_, err := store.Mutate(ctx, userID, func(ctx context.Context, record *models.Record) error {
					return record.SetSubCheck(check, true, record.UpdatedAt)
				})
				errs <- err
			}(check)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		record, err := store.Find(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, record.Status)
	})

	t.Run("CountByStatus groups records", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))

		_, err := store.GetOrCreate(ctx, id.NewUserID())
		require.NoError(t, err)
		_, err = store.Mutate(ctx, id.NewUserID(), func(ctx context.Context, record *models.Record) error {
			record.AdminReject(id.NewUserID(), "fake documents", record.UpdatedAt)
			return nil
		})
		require.NoError(t, err)

		counts, err := store.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[models.StatusPending])
		assert.Equal(t, 1, counts[models.StatusRejected])
	})
}
