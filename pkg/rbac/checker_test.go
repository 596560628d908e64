package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/pkg/uow"
)

func ptr(v int64) *int64 { return &v }

type mockUserManager struct {
	mock.Mock
}

func (m *mockUserManager) IsGranted(ctx context.Context, userID int64, permission string, branchID *int64) (bool, error) {
	args := m.Called(ctx, userID, permission, branchID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserManager) UserPermissionCacheItem(ctx context.Context, userID int64, branchID *int64) (*rbac.UserPermissionCacheItem, error) {
	args := m.Called(ctx, userID, branchID)
	item, _ := args.Get(0).(*rbac.UserPermissionCacheItem)
	return item, args.Error(1)
}

type mockRoleManager struct {
	mock.Mock
}

func (m *mockRoleManager) GrantedPermissions(ctx context.Context, roleID int64) ([]string, error) {
	args := m.Called(ctx, roleID)
	perms, _ := args.Get(0).([]string)
	return perms, args.Error(1)
}

func TestPermissionChecker_GrantedPermissions(t *testing.T) {
	t.Parallel()

	t.Run("unions role and direct grants", func(t *testing.T) {
		t.Parallel()

		users := &mockUserManager{}
		roles := &mockRoleManager{}
		users.On("UserPermissionCacheItem", mock.Anything, int64(1), (*int64)(nil)).Return(&rbac.UserPermissionCacheItem{
			UserID:             1,
			RoleIDs:            []int64{10, 20},
			GrantedPermissions: []string{"D"},
		}, nil)
		roles.On("GrantedPermissions", mock.Anything, int64(10)).Return([]string{"A", "B"}, nil)
		roles.On("GrantedPermissions", mock.Anything, int64(20)).Return([]string{"B", "C"}, nil)

		checker := rbac.NewPermissionChecker(users, roles)
		got, err := checker.GrantedPermissions(context.Background(), 1)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, got)

		users.AssertExpectations(t)
		roles.AssertExpectations(t)
	})

	t.Run("uses the session branch", func(t *testing.T) {
		t.Parallel()

		users := &mockUserManager{}
		users.On("UserPermissionCacheItem", mock.Anything, int64(1), ptr(5)).Return(&rbac.UserPermissionCacheItem{
			GrantedPermissions: []string{"X"},
		}, nil)

		checker := rbac.NewPermissionChecker(users, &mockRoleManager{})
		ctx := tenant.WithBranchID(context.Background(), ptr(5))
		got, err := checker.GrantedPermissions(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"X"}, got)
	})

	t.Run("missing snapshot yields empty list", func(t *testing.T) {
		t.Parallel()

		users := &mockUserManager{}
		users.On("UserPermissionCacheItem", mock.Anything, int64(1), (*int64)(nil)).Return(nil, nil)

		got, err := rbac.NewPermissionChecker(users, &mockRoleManager{}).GrantedPermissions(context.Background(), 1)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("role lookup failure surfaces", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		users := &mockUserManager{}
		roles := &mockRoleManager{}
		users.On("UserPermissionCacheItem", mock.Anything, int64(1), (*int64)(nil)).Return(&rbac.UserPermissionCacheItem{RoleIDs: []int64{1}}, nil)
		roles.On("GrantedPermissions", mock.Anything, int64(1)).Return(nil, boom)

		_, err := rbac.NewPermissionChecker(users, roles).GrantedPermissions(context.Background(), 1)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPermissionChecker_IsGranted(t *testing.T) {
	t.Parallel()

	t.Run("no user is denied without asking the manager", func(t *testing.T) {
		t.Parallel()

		users := &mockUserManager{}
		checker := rbac.NewPermissionChecker(users, &mockRoleManager{})

		granted, err := checker.IsGranted(context.Background(), "Pages.Users")
		require.NoError(t, err)
		assert.False(t, granted)
		users.AssertNotCalled(t, "IsGranted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("null session is denied", func(t *testing.T) {
		t.Parallel()

		checker := rbac.NewPermissionChecker(&mockUserManager{}, &mockRoleManager{}, rbac.WithSession(rbac.NullSession{}))
		granted, err := checker.IsGranted(rbac.WithUserID(context.Background(), 1), "Pages.Users")
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("session user and branch are used", func(t *testing.T) {
		t.Parallel()

		users := &mockUserManager{}
		users.On("IsGranted", mock.Anything, int64(7), "Pages.Users", ptr(3)).Return(true, nil)

		ctx := tenant.WithBranchID(rbac.WithUserID(context.Background(), 7), ptr(3))
		granted, err := rbac.NewPermissionChecker(users, &mockRoleManager{}).IsGranted(ctx, "Pages.Users")
		require.NoError(t, err)
		assert.True(t, granted)
		users.AssertExpectations(t)
	})

	t.Run("manager errors surface", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		users := &mockUserManager{}
		users.On("IsGranted", mock.Anything, int64(7), "P", (*int64)(nil)).Return(false, boom)

		_, err := rbac.NewPermissionChecker(users, &mockRoleManager{}).IsUserGranted(context.Background(), 7, "P", nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPermissionChecker_IsGrantedFor(t *testing.T) {
	t.Parallel()

	t.Run("switches the unit of work tenant", func(t *testing.T) {
		t.Parallel()

		var seen *int64
		users := &mockUserManager{}
		users.On("IsGranted", mock.Anything, int64(7), "P", (*int64)(nil)).
			Run(func(args mock.Arguments) {
				seen = uow.TenantID(args.Get(0).(context.Context))
			}).
			Return(true, nil)

		ctx := uow.Begin(context.Background(), ptr(1))
		granted, err := rbac.NewPermissionChecker(users, &mockRoleManager{}).IsGrantedFor(ctx, rbac.UserIdentifier{TenantID: ptr(2), UserID: 7}, "P", nil)
		require.NoError(t, err)
		assert.True(t, granted)
		require.NotNil(t, seen)
		assert.Equal(t, int64(2), *seen)
		assert.Equal(t, int64(1), *uow.TenantID(ctx), "caller scope is restored")
	})

	t.Run("without a unit of work the tenant is not switched", func(t *testing.T) {
		t.Parallel()

		users := &mockUserManager{}
		users.On("IsGranted", mock.Anything, int64(7), "P", (*int64)(nil)).
			Run(func(args mock.Arguments) {
				_, ok := uow.Current(args.Get(0).(context.Context))
				assert.False(t, ok)
			}).
			Return(false, nil)

		granted, err := rbac.NewPermissionChecker(users, &mockRoleManager{}).IsGrantedFor(context.Background(), rbac.UserIdentifier{TenantID: ptr(2), UserID: 7}, "P", nil)
		require.NoError(t, err)
		assert.False(t, granted)
	})
}

func TestNullChecker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var c rbac.Checker = rbac.NullChecker{}

	granted, err := c.IsGranted(ctx, "anything")
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = c.IsGrantedFor(ctx, rbac.UserIdentifier{UserID: 1}, "anything", nil)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = c.IsUserGranted(ctx, 1, "anything", ptr(1))
	require.NoError(t, err)
	assert.True(t, granted)

	perms, err := c.GrantedPermissions(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	users := &mockUserManager{}
	users.On("IsGranted", mock.Anything, int64(1), "A", (*int64)(nil)).Return(true, nil)
	users.On("IsGranted", mock.Anything, int64(1), "B", (*int64)(nil)).Return(false, nil)
	checker := rbac.NewPermissionChecker(users, &mockRoleManager{})
	session := rbac.ContextSession{}

	assert.ErrorIs(t, rbac.Authorize(context.Background(), checker, session, "A"), rbac.ErrNoUserInContext)

	ctx := rbac.WithUserID(context.Background(), 1)
	assert.NoError(t, rbac.Authorize(ctx, checker, session, "A"))
	assert.ErrorIs(t, rbac.Authorize(ctx, checker, session, "A", "B"), rbac.ErrInsufficientPermissions)
}
