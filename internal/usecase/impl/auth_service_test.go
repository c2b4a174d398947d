package impl

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T, allowAdminSignup bool) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	srv := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       newTestConfig(allowAdminSignup),
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      srv,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t, false)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	fx.tokenService.EXPECT().IssueToken(mock.AnythingOfType("uuid.UUID"), "customer").Return("jwt-token", nil)

	out, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "  Jane  ",
		Email:    " Jane@Example.com ",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", out.Token)
	assert.Equal(t, "Jane", out.User.Name)
	assert.Equal(t, "jane@example.com", out.User.Email)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
	assert.Equal(t, "hashed", out.User.PasswordHash)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RegisterInput
		want  error
	}{
		{
			name:  "missing name",
			input: usecase.RegisterInput{Email: "a@example.com", Password: "secret1"},
			want:  domainerrors.ErrMissingRegistrationFields,
		},
		{
			name:  "invalid email",
			input: usecase.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"},
			want:  domainerrors.ErrInvalidEmail,
		},
		{
			name:  "short password",
			input: usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: "12345"},
			want:  domainerrors.ErrPasswordTooShort,
		},
		{
			name:  "password over bcrypt limit",
			input: usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 73)},
			want:  domainerrors.ErrPasswordTooLong,
		},
		{
			name:  "unknown role",
			input: usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1", Role: "owner"},
			want:  domainerrors.ErrValidationFailed,
		},
		{
			name:  "admin signup disabled",
			input: usecase.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1", Role: "admin"},
			want:  domainerrors.ErrAdminOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t, false)

			_, err := fx.service.Register(context.Background(), tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestAuthService_Register_AdminAllowed(t *testing.T) {
	fx := createTestAuthService(t, true)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "boss@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	fx.tokenService.EXPECT().IssueToken(mock.AnythingOfType("uuid.UUID"), "admin").Return("jwt-token", nil)

	out, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Boss",
		Email:    "boss@example.com",
		Password: "secret1",
		Role:     "admin",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t, false)
	ctx := context.Background()

	existing := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(existing, nil)

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})

	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAuthService_Register_DuplicateOnInsert(t *testing.T) {
	fx := createTestAuthService(t, false)
	ctx := context.Background()

	fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
	fx.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrDuplicateEmail)

	_, err := fx.service.Register(ctx, usecase.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})

	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAuthService_Login(t *testing.T) {
	user := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
	user.PasswordHash = "hashed"

	t.Run("success", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(user, nil)
		fx.hasher.EXPECT().Check("secret1", "hashed").Return(true)
		fx.tokenService.EXPECT().IssueToken(user.ID, "customer").Return("jwt-token", nil)

		out, err := fx.service.Login(ctx, usecase.LoginInput{Email: "JANE@example.com", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, user.ID, out.User.ID)
		assert.Equal(t, "jwt-token", out.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(user, nil)
		fx.hasher.EXPECT().Check("nope", "hashed").Return(false)

		_, err := fx.service.Login(ctx, usecase.LoginInput{Email: "jane@example.com", Password: "nope"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("unknown email", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.Login(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "secret1"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("missing fields", func(t *testing.T) {
		fx := createTestAuthService(t, false)

		_, err := fx.service.Login(context.Background(), usecase.LoginInput{Email: "jane@example.com"})

		assert.True(t, errors.Is(err, domainerrors.ErrMissingLoginFields))
	})
}

func TestAuthService_GetProfile_NotFound(t *testing.T) {
	fx := createTestAuthService(t, false)
	ctx := context.Background()
	id := uuid.New()

	fx.userRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.GetProfile(ctx, id)

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAuthService_Authenticate(t *testing.T) {
	user := entity.NewUser("Admin", "admin@example.com", entity.RoleAdmin)

	t.Run("missing token", func(t *testing.T) {
		fx := createTestAuthService(t, false)

		_, err := fx.service.Authenticate(context.Background(), "  ")

		assert.True(t, errors.Is(err, domainerrors.ErrMissingToken))
	})

	t.Run("invalid token", func(t *testing.T) {
		fx := createTestAuthService(t, false)

		fx.tokenService.EXPECT().ValidateToken("garbage").Return(nil, errors.New("token is malformed"))

		_, err := fx.service.Authenticate(context.Background(), "garbage")

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	})

	t.Run("deleted user", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		fx.tokenService.EXPECT().ValidateToken("valid").Return(&service.Claims{UserID: user.ID, Role: "admin"}, nil)
		fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.Authenticate(ctx, "valid")

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	})

	t.Run("success uses stored role", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		fx.tokenService.EXPECT().ValidateToken("valid").Return(&service.Claims{UserID: user.ID, Role: "customer"}, nil)
		fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

		got, err := fx.service.Authenticate(ctx, "valid")

		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, got.Role)
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		fx.userRepo.EXPECT().FindByEmail(ctx, "root@example.com").Return(nil, repository.ErrUserNotFound)
		fx.hasher.EXPECT().Hash("rootpass").Return("hashed", nil)
		fx.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(nil)

		user, created, err := fx.service.EnsureAdmin(ctx, usecase.EnsureAdminInput{Email: "root@example.com", Password: "rootpass"})

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, entity.RoleAdmin, user.Role)
		assert.Equal(t, "Administrator", user.Name)
	})

	t.Run("promotes existing account", func(t *testing.T) {
		fx := createTestAuthService(t, false)
		ctx := context.Background()

		existing := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
		fx.userRepo.EXPECT().FindByEmail(ctx, "jane@example.com").Return(existing, nil)
		fx.hasher.EXPECT().Hash("newpass").Return("rehashed", nil)
		fx.userRepo.EXPECT().Update(ctx, existing).Return(nil)

		user, created, err := fx.service.EnsureAdmin(ctx, usecase.EnsureAdminInput{Email: "jane@example.com", Password: "newpass"})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, entity.RoleAdmin, user.Role)
		assert.Equal(t, "Jane", user.Name)
		assert.Equal(t, "rehashed", user.PasswordHash)
	})
}
