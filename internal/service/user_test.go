package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hrdocs/internal/apperr"
	"hrdocs/internal/logging"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
	repoMocks "hrdocs/internal/repository/mocks"
)

func TestMain(m *testing.M) {
	passwordHashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newUserService() (*userService, *repoMocks.MockUserRepository, *repoMocks.MockEmployeeRepository) {
	users := new(repoMocks.MockUserRepository)
	employees := new(repoMocks.MockEmployeeRepository)
	return NewUserService(users, employees, logging.Discard()).(*userService), users, employees
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	valid := CreateUserRequest{EmployeeID: 7, Email: "Ana@Example.com", Password: "secreto", Role: "Supervisor_Patio"}

	t.Run("success", func(t *testing.T) {
		svc, users, employees := newUserService()
		employees.On("FindByID", ctx, int64(7)).Return(&model.Employee{ID: 7, Name: "Ana Ruiz"}, nil)
		users.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
		users.On("ExistsByEmployee", ctx, int64(7)).Return(false, nil)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "Ana Ruiz" &&
				u.Email == "ana@example.com" &&
				u.Role == model.RoleYardLead &&
				*u.EmployeeID == 7 &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreto")) == nil
		})).Return(&model.User{ID: 11, Name: "Ana Ruiz", PasswordHash: "h"}, nil)

		u, err := svc.Create(ctx, valid)

		require.NoError(t, err)
		assert.Equal(t, int64(11), u.ID)
		assert.Empty(t, u.PasswordHash)
		users.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		req     CreateUserRequest
		setup   func(users *repoMocks.MockUserRepository, employees *repoMocks.MockEmployeeRepository)
		wantErr error
		kind    apperr.Kind
	}{
		{
			name: "short password",
			req:  CreateUserRequest{EmployeeID: 7, Email: "a@b.co", Password: "123", Role: "admin"},
			kind: apperr.KindValidation,
		},
		{
			name: "missing employee",
			req:  CreateUserRequest{Email: "a@b.co", Password: "123456", Role: "admin"},
			kind: apperr.KindValidation,
		},
		{
			name:    "unknown role",
			req:     CreateUserRequest{EmployeeID: 7, Email: "a@b.co", Password: "123456", Role: "jefe"},
			wantErr: ErrInvalidRole,
			kind:    apperr.KindValidation,
		},
		{
			name: "employee not found",
			req:  valid,
			setup: func(_ *repoMocks.MockUserRepository, e *repoMocks.MockEmployeeRepository) {
				e.On("FindByID", ctx, int64(7)).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrEmployeeNotFound,
			kind:    apperr.KindNotFound,
		},
		{
			name: "email taken",
			req:  valid,
			setup: func(u *repoMocks.MockUserRepository, e *repoMocks.MockEmployeeRepository) {
				e.On("FindByID", ctx, int64(7)).Return(&model.Employee{ID: 7}, nil)
				u.On("ExistsByEmail", ctx, "ana@example.com").Return(true, nil)
			},
			wantErr: ErrEmailTaken,
			kind:    apperr.KindConflict,
		},
		{
			name: "employee already linked",
			req:  valid,
			setup: func(u *repoMocks.MockUserRepository, e *repoMocks.MockEmployeeRepository) {
				e.On("FindByID", ctx, int64(7)).Return(&model.Employee{ID: 7}, nil)
				u.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
				u.On("ExistsByEmployee", ctx, int64(7)).Return(true, nil)
			},
			wantErr: ErrEmployeeLinked,
			kind:    apperr.KindConflict,
		},
		{
			name: "unique race",
			req:  valid,
			setup: func(u *repoMocks.MockUserRepository, e *repoMocks.MockEmployeeRepository) {
				e.On("FindByID", ctx, int64(7)).Return(&model.Employee{ID: 7}, nil)
				u.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
				u.On("ExistsByEmployee", ctx, int64(7)).Return(false, nil)
				u.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrDuplicateUser,
			kind:    apperr.KindConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, employees := newUserService()
			if tt.setup != nil {
				tt.setup(users, employees)
			}

			_, err := svc.Create(ctx, tt.req)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("legacy alias normalized", func(t *testing.T) {
		svc, users, _ := newUserService()
		users.On("UpdateRole", ctx, int64(3), model.RoleHR).Return(nil)

		role, err := svc.UpdateRole(ctx, 3, " RRHH ")
		require.NoError(t, err)
		assert.Equal(t, model.RoleHR, role)
	})

	t.Run("missing user", func(t *testing.T) {
		svc, users, _ := newUserService()
		users.On("UpdateRole", ctx, int64(3), model.RoleAdmin).Return(repository.ErrNotFound)

		_, err := svc.UpdateRole(ctx, 3, "admin")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("rejects", func(t *testing.T) {
		svc, _, _ := newUserService()

		_, err := svc.UpdateRole(ctx, 0, "admin")
		assert.ErrorIs(t, err, ErrInvalidUserID)

		_, err = svc.UpdateRole(ctx, 3, "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		_, err = svc.UpdateRole(ctx, 3, "superuser")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	svc, users, _ := newUserService()
	users.On("UpdatePassword", ctx, int64(3), mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("nueva123")) == nil
	})).Return(nil)
	users.On("UpdatePassword", ctx, int64(4), mock.Anything).Return(repository.ErrNotFound)

	assert.NoError(t, svc.ResetPassword(ctx, 3, "nueva123"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, 4, "nueva123"), ErrUserNotFound)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(svc.ResetPassword(ctx, 3, "123")))
	assert.ErrorIs(t, svc.ResetPassword(ctx, -1, "nueva123"), ErrInvalidUserID)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService()
	users.On("List", ctx).Return([]model.UserSummary{{User: model.User{ID: 1}}}, nil)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
