package uow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/uow"
)

func ptr(v int64) *int64 { return &v }

func TestUnitOfWork(t *testing.T) {
	t.Parallel()

	t.Run("no active unit of work", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		_, ok := uow.Current(ctx)
		assert.False(t, ok)
		assert.Nil(t, uow.TenantID(ctx))
		assert.False(t, uow.IsFilterEnabled(ctx, uow.MayHaveTenant))
		assert.Equal(t, ctx, uow.SetTenantID(ctx, ptr(1)))
		assert.Equal(t, ctx, uow.DisableFilter(ctx, uow.MayHaveTenant))
	})

	t.Run("begin enables tenant filters", func(t *testing.T) {
		t.Parallel()

		ctx := uow.Begin(context.Background(), ptr(3))
		require.NotNil(t, uow.TenantID(ctx))
		assert.Equal(t, int64(3), *uow.TenantID(ctx))
		assert.True(t, uow.IsFilterEnabled(ctx, uow.MayHaveTenant))
		assert.True(t, uow.IsFilterEnabled(ctx, uow.MustHaveTenant))
		assert.False(t, uow.IsFilterEnabled(ctx, "SoftDelete"))
	})

	t.Run("tenant switch is scoped to the derived context", func(t *testing.T) {
		t.Parallel()

		outer := uow.Begin(context.Background(), ptr(1))
		inner := uow.SetTenantID(outer, ptr(2))
		host := uow.SetTenantID(outer, nil)

		assert.Equal(t, int64(2), *uow.TenantID(inner))
		assert.Nil(t, uow.TenantID(host))
		assert.Equal(t, int64(1), *uow.TenantID(outer))
	})

	t.Run("filter toggles do not leak", func(t *testing.T) {
		t.Parallel()

		outer := uow.Begin(context.Background())
		off := uow.DisableFilter(outer, uow.MayHaveTenant)
		on := uow.EnableFilter(off, uow.MayHaveTenant)

		assert.False(t, uow.IsFilterEnabled(off, uow.MayHaveTenant))
		assert.True(t, uow.IsFilterEnabled(on, uow.MayHaveTenant))
		assert.True(t, uow.IsFilterEnabled(outer, uow.MayHaveTenant))
	})

	t.Run("nested begin inherits state", func(t *testing.T) {
		t.Parallel()

		outer := uow.DisableFilter(uow.Begin(context.Background(), ptr(5)), uow.MustHaveTenant)
		nested := uow.Begin(outer)

		assert.Equal(t, int64(5), *uow.TenantID(nested))
		assert.False(t, uow.IsFilterEnabled(nested, uow.MustHaveTenant))
	})

	t.Run("returned tenant id is a copy", func(t *testing.T) {
		t.Parallel()

		id := ptr(7)
		ctx := uow.Begin(context.Background(), id)
		*id = 8
		*uow.TenantID(ctx) = 9
		assert.Equal(t, int64(7), *uow.TenantID(ctx))
	})
}
