package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/entitlements/pkg/tenant"
)

func TestMemoryDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("get by ID", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		dir, err := tenant.NewMemoryDirectory(tenant.Tenant{ID: id, Name: "Iron Temple", PlanKey: "studio", Status: tenant.StatusActive})
		require.NoError(t, err)

		got, err := dir.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Iron Temple", got.Name)

		_, err = dir.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("zero ID rejected", func(t *testing.T) {
		t.Parallel()

		_, err := tenant.NewMemoryDirectory(tenant.Tenant{Name: "No ID"})
		assert.ErrorIs(t, err, tenant.ErrInvalidTenant)
	})

	t.Run("list by status", func(t *testing.T) {
		t.Parallel()

		base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		active := tenant.Tenant{ID: uuid.New(), Name: "A", Status: tenant.StatusActive, CreatedAt: base.Add(time.Hour)}
		trial := tenant.Tenant{ID: uuid.New(), Name: "B", Status: tenant.StatusTrial, CreatedAt: base}
		cancelled := tenant.Tenant{ID: uuid.New(), Name: "C", Status: tenant.StatusCancelled, CreatedAt: base}

		dir, err := tenant.NewMemoryDirectory(active, trial, cancelled)
		require.NoError(t, err)

		got, err := dir.ListByStatus(ctx, tenant.StatusActive, tenant.StatusTrial)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Sorted by creation time.
		assert.Equal(t, "B", got[0].Name)
		assert.Equal(t, "A", got[1].Name)
	})

	t.Run("update block state", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		dir, err := tenant.NewMemoryDirectory(tenant.Tenant{ID: id, Status: tenant.StatusActive})
		require.NoError(t, err)

		require.NoError(t, dir.UpdateBlockState(ctx, id, true, "clients limit reached"))

		got, err := dir.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Blocked)
		assert.Equal(t, "clients limit reached", got.BlockReason)

		require.NoError(t, dir.UpdateBlockState(ctx, id, false, ""))
		got, err = dir.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Blocked)
		assert.Empty(t, got.BlockReason)

		assert.ErrorIs(t, dir.UpdateBlockState(ctx, uuid.New(), true, "x"), tenant.ErrTenantNotFound)
	})

	t.Run("update last activity", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		dir, err := tenant.NewMemoryDirectory(tenant.Tenant{ID: id, Status: tenant.StatusActive})
		require.NoError(t, err)

		at := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)
		require.NoError(t, dir.UpdateLastActivity(ctx, id, at))

		got, err := dir.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, at, got.LastActivityAt)
	})
}
