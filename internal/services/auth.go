package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewAuthService creates an AuthService with the given repository and auth ports.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
		logger:       logger,
	}
}

// SignUp registers a new user with the "user" role. Admin accounts are seeded
// directly in the database.
func (s *authService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{
			Email: user.Email,
			Name:  user.Name,
		}); err != nil {
			s.logger.WarnContext(ctx, "send welcome email", "user_id", user.ID, "err", err)
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}
