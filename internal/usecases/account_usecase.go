package usecases

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/domain/repositories"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/storage"
	"github.com/Dorstol/BitBuddies/pkg/crypto"
	"github.com/Dorstol/BitBuddies/pkg/jwt"
	"github.com/Dorstol/BitBuddies/pkg/logger"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// Mailer is the narrow contract the account flows need from the email
// collaborator.
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetEmail(to, token string) error
}

// AccountUsecase handles registration, verification, login and profile
// management.
type AccountUsecase struct {
	userRepo   repositories.UserRepository
	teamRepo   repositories.TeamRepository
	jwtService *jwt.JWTService
	mailer     Mailer
	photos     storage.PhotoStore
}

// NewAccountUsecase creates a new account usecase
func NewAccountUsecase(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	jwtService *jwt.JWTService,
	mailer Mailer,
	photos storage.PhotoStore,
) *AccountUsecase {
	return &AccountUsecase{
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		jwtService: jwtService,
		mailer:     mailer,
		photos:     photos,
	}
}

// Register creates a new unverified user and dispatches the
// verification mail. Mail delivery is best-effort: a failure is logged
// and never rolls back the registration.
func (u *AccountUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.Conflict(domainerrors.CodeUserAlreadyExists, "a user with this email already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		HashedPassword: hashed,
		Position:       entities.PositionDefault,
		IsActive:       true,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// concurrent register with the same email loses on the unique
		// index rather than the read above
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(domainerrors.CodeUserAlreadyExists, "a user with this email already exists")
		}
		return nil, err
	}

	u.dispatchVerification(ctx, user)

	return user, nil
}

// RequestVerification re-sends the verification mail. Outcomes are
// explicit: unknown users, inactive users and already-verified users
// are reported as such.
func (u *AccountUsecase) RequestVerification(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return err
	}
	if !user.IsActive {
		return domainerrors.InvalidOperation(domainerrors.CodeUserInactive, "user is inactive")
	}
	if user.IsVerified {
		return domainerrors.InvalidOperation(domainerrors.CodeAlreadyVerified, "user is already verified")
	}

	u.dispatchVerification(ctx, user)
	return nil
}

// VerifyEmail validates a verification token and flips is_verified.
func (u *AccountUsecase) VerifyEmail(ctx context.Context, token string) (*entities.User, error) {
	claims, err := u.jwtService.ValidateActionToken(token, jwt.VerifyAudience)
	if err != nil {
		return nil, domainerrors.InvalidToken(domainerrors.CodeVerifyBadToken, "invalid or expired verification token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	if user.IsVerified {
		return nil, domainerrors.InvalidOperation(domainerrors.CodeAlreadyVerified, "user is already verified")
	}

	if err := u.userRepo.SetVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true
	return user, nil
}

// Login authenticates a user. Unverified users are refused a token.
func (u *AccountUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadCredentials, "invalid email or password", domainerrors.ErrInvalidCredentials)
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.HashedPassword) {
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadCredentials, "invalid email or password", domainerrors.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadCredentials, "invalid email or password", domainerrors.ErrUserInactive)
	}
	if !user.IsVerified {
		return nil, domainerrors.PermissionDenied(domainerrors.CodeUserNotVerified, "verify your account before logging in")
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// RefreshToken re-issues a token pair from a refresh token.
func (u *AccountUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email)
}

// ForgotPassword dispatches a password-reset mail. Unknown emails are
// reported explicitly.
func (u *AccountUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return err
	}

	token, err := u.jwtService.GenerateActionToken(user.ID, user.Email, jwt.ResetAudience)
	if err != nil {
		return err
	}

	go func() {
		if err := u.mailer.SendPasswordResetEmail(user.Email, token); err != nil {
			logger.Error(context.Background(), "failed to send password reset email",
				zap.String("email", user.Email), zap.Error(err))
		}
	}()
	return nil
}

// ResetPassword validates a reset token and replaces the credential.
func (u *AccountUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := u.jwtService.ValidateActionToken(token, jwt.ResetAudience)
	if err != nil {
		return domainerrors.InvalidToken(domainerrors.CodeResetBadToken, "invalid or expired reset token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return err
	}

	hashed, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, user.ID, hashed)
}

// ChangePassword replaces the credential after checking the current
// one. A wrong current password is an explicit error.
func (u *AccountUsecase) ChangePassword(ctx context.Context, userID uint, input *entities.ChangePasswordInput) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return err
	}

	if !crypto.CheckPassword(input.CurrentPassword, user.HashedPassword) {
		return domainerrors.InvalidOperation(domainerrors.CodeInvalidPassword, "current password does not match")
	}

	hashed, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return u.userRepo.UpdatePassword(ctx, userID, hashed)
}

// UpdateProfile applies a partial profile update.
func (u *AccountUsecase) UpdateProfile(ctx context.Context, userID uint, input *entities.UpdateUserInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return nil, err
	}

	if input.Email.Valid && input.Email.String != user.Email {
		if _, err := u.userRepo.GetByEmail(ctx, input.Email.String); err == nil {
			return nil, domainerrors.Conflict(domainerrors.CodeEmailAlreadyExists, "a user with this email already exists")
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		user.Email = input.Email.String
	}
	if input.FirstName.Valid {
		user.FirstName = input.FirstName.String
	}
	if input.LastName.Valid {
		user.LastName = input.LastName.String
	}
	if input.Position.Valid {
		position := entities.Position(input.Position.String)
		if !entities.ValidPosition(position) {
			return nil, domainerrors.BadRequest("unknown position")
		}
		user.Position = position
	}
	if input.Contact.Valid {
		user.Contact = input.Contact.String
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(domainerrors.CodeEmailAlreadyExists, "a user with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

// UploadPhoto validates and stores a profile photo, recording the
// generated filename on the user.
func (u *AccountUsecase) UploadPhoto(ctx context.Context, userID uint, filename string, content []byte) (string, error) {
	if len(content) >= storage.MaxPhotoSize {
		return "", domainerrors.InvalidOperation(domainerrors.CodeUnsupportedFileSize, "photo exceeds the size limit")
	}

	stored, err := u.photos.Save(filename, content)
	if err != nil {
		return "", domainerrors.InvalidOperation(domainerrors.CodeExtensionNotAllowed, "file extension not allowed")
	}

	if err := u.userRepo.UpdatePhoto(ctx, userID, stored); err != nil {
		return "", err
	}
	return stored, nil
}

// GetUserByID gets a user by ID
func (u *AccountUsecase) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(domainerrors.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// ListUsers lists users matching the filter.
func (u *AccountUsecase) ListUsers(ctx context.Context, filter entities.UserFilter, p utils.PaginationParams) ([]*entities.User, int64, error) {
	return u.userRepo.List(ctx, filter, p)
}

// ListUserTeams lists the teams the user is a member of.
func (u *AccountUsecase) ListUserTeams(ctx context.Context, userID uint, filter entities.TeamFilter, p utils.PaginationParams) ([]*entities.Team, int64, error) {
	return u.teamRepo.ListByMember(ctx, userID, filter, p)
}

func (u *AccountUsecase) dispatchVerification(ctx context.Context, user *entities.User) {
	token, err := u.jwtService.GenerateActionToken(user.ID, user.Email, jwt.VerifyAudience)
	if err != nil {
		logger.Error(ctx, "failed to generate verification token",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return
	}

	go func() {
		if err := u.mailer.SendVerificationEmail(user.Email, token); err != nil {
			logger.Error(context.Background(), "failed to send verification email",
				zap.String("email", user.Email), zap.Error(err))
		}
	}()
}
