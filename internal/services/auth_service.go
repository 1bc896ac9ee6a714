package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultOrganizationName = "Mi Organización"

type IAuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	GetMyOrganization(ctx context.Context, userID uuid.UUID) (*models.UserOrganization, error)
}

type AuthService struct {
	users    repository.IUserRepository
	sessions repository.SessionRepository
	jwt      *JWTService
	logger   *zap.Logger
	cost     int
}

func NewAuthService(users repository.IUserRepository, sessions repository.SessionRepository, jwtService *JWTService, logger *zap.Logger) IAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwt:      jwtService,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates the user together with its own organization and
// signs the caller in as its owner.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("Email already registered")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Internal(err, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, apperror.Internal(err, "failed to hash password")
	}

	orgName := defaultOrganizationName
	if req.OrganizationName != nil && strings.TrimSpace(*req.OrganizationName) != "" {
		orgName = strings.TrimSpace(*req.OrganizationName)
	}

	user := &models.User{Email: email, PasswordHash: string(hash), FullName: req.FullName}
	membership, err := s.users.CreateUserWithOrganization(ctx, user, orgName)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal(err, "failed to register user")
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", membership.OrganizationID.String()))
	return s.issueTokens(ctx, user, membership.OrganizationID.String(), string(membership.Role))
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, apperror.Internal(err, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	orgID, role, err := s.membershipClaims(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user, orgID, role)
}

// Refresh rotates the token pair. Only the most recently issued refresh
// token of a user is accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}

	stored, err := s.sessions.GetRefreshTokenHash(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid refresh token")
		}
		return nil, apperror.Internal(err, "failed to load session")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashToken(refreshToken))) != 1 {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid refresh token")
		}
		return nil, apperror.Internal(err, "failed to load user")
	}

	orgID, role, err := s.membershipClaims(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user, orgID, role)
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.DeleteRefreshTokenHash(ctx, userID); err != nil {
		return apperror.Internal(err, "failed to end session")
	}
	return nil
}

func (s *AuthService) GetMyOrganization(ctx context.Context, userID uuid.UUID) (*models.UserOrganization, error) {
	org, err := s.users.GetOrganizationForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User has no organization")
		}
		return nil, apperror.Internal(err, "failed to load organization")
	}
	return org, nil
}

// membershipClaims returns empty strings for a user without organization.
func (s *AuthService) membershipClaims(ctx context.Context, userID uuid.UUID) (string, string, error) {
	org, err := s.users.GetOrganizationForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", nil
		}
		return "", "", apperror.Internal(err, "failed to load organization")
	}
	return org.Organization.ID.String(), string(org.Role), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User, organizationID, role string) (*models.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Email, organizationID, role)
	if err != nil {
		return nil, apperror.Internal(err, "failed to sign access token")
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, apperror.Internal(err, "failed to sign refresh token")
	}
	if err := s.sessions.SetRefreshTokenHash(ctx, user.ID, hashToken(refresh), s.jwt.RefreshTTL()); err != nil {
		return nil, apperror.Internal(err, "failed to store session")
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
