// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMinPasswordLength = 6

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo          repository.UserRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	minPasswordLength int
	allowAdminSignup  bool
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	srv := &authService{
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		minPasswordLength: defaultMinPasswordLength,
		logger:            params.Logger,
	}
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.MinPasswordLength > 0 {
			srv.minPasswordLength = params.Config.Auth.MinPasswordLength
		}
		srv.allowAdminSignup = params.Config.Auth.AllowAdminSignup
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a customer account, or an admin when self-registration of admins is enabled.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := entity.NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingRegistrationFields
	}
	if !entity.IsValidEmail(email) {
		return nil, domainerrors.ErrInvalidEmail
	}
	if err := srv.validatePassword(input.Password); err != nil {
		return nil, err
	}

	role, err := srv.resolveSignupRole(input.Role)
	if err != nil {
		return nil, err
	}

	if _, err := srv.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, domainerrors.ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing user")
	}

	user := entity.NewUser(name, email, role)
	if err := user.SetPassword(srv.hasher, input.Password); err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	token, err := srv.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", user.ID), slog.String("role", user.Role.String()))

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// Login verifies the credentials. Unknown email and wrong password fail the same way.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingLoginFields
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.MatchPassword(srv.hasher, input.Password) {
		srv.log(ctx).Debug("Login rejected", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

func (srv *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// Authenticate trusts only the token subject; the role comes from the stored user.
func (srv *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domainerrors.ErrMissingToken
	}

	claims, err := srv.tokenService.ValidateToken(token)
	if err != nil {
		srv.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidToken
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidToken
		}

		return nil, errors.Wrap(err, "failed to load token subject")
	}

	return user, nil
}

func (srv *authService) EnsureAdmin(ctx context.Context, input usecase.EnsureAdminInput) (*entity.User, bool, error) {
	name := strings.TrimSpace(input.Name)
	email := entity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, false, domainerrors.ErrMissingRegistrationFields
	}
	if !entity.IsValidEmail(email) {
		return nil, false, domainerrors.ErrInvalidEmail
	}
	if err := srv.validatePassword(input.Password); err != nil {
		return nil, false, err
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		if name == "" {
			name = "Administrator"
		}
		user = entity.NewUser(name, email, entity.RoleAdmin)
		if err := user.SetPassword(srv.hasher, input.Password); err != nil {
			return nil, false, errors.Wrap(err, "failed to set admin password")
		}
		if err := srv.userRepo.Create(ctx, user); err != nil {
			return nil, false, errors.Wrap(err, "failed to create admin")
		}
		srv.log(ctx).Info("Admin account created", slog.Any("userID", user.ID))

		return user, true, nil

	case err != nil:
		return nil, false, errors.Wrap(err, "failed to find admin by email")
	}

	user.Role = entity.RoleAdmin
	if name != "" {
		user.Name = name
	}
	if err := user.SetPassword(srv.hasher, input.Password); err != nil {
		return nil, false, errors.Wrap(err, "failed to set admin password")
	}
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, false, errors.Wrap(err, "failed to update admin")
	}
	srv.log(ctx).Info("Admin account ensured", slog.Any("userID", user.ID))

	return user, false, nil
}

func (srv *authService) validatePassword(password string) error {
	if len([]rune(password)) < srv.minPasswordLength {
		return domainerrors.ErrPasswordTooShort.WithMessagef("Password must be at least %d characters", srv.minPasswordLength)
	}
	if len(password) > service.MaxPasswordBytes {
		return domainerrors.ErrPasswordTooLong
	}

	return nil
}

func (srv *authService) resolveSignupRole(raw string) (entity.Role, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return entity.RoleCustomer, nil
	}

	role := entity.Role(raw)
	if !role.IsValid() {
		return "", domainerrors.ErrValidationFailed.WithMessage("Invalid role")
	}
	if role.IsAdmin() && !srv.allowAdminSignup {
		return "", domainerrors.ErrAdminOnly.WithMessage("Admin registration is disabled")
	}

	return role, nil
}

func (srv *authService) issueToken(ctx context.Context, user *entity.User) (string, error) {
	token, err := srv.tokenService.IssueToken(user.ID, user.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("userID", user.ID), slog.Any("error", err))

		return "", domainerrors.ErrTokenIssueFailed
	}

	return token, nil
}
