package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/ports"
)

// AuthService implements registration and login. The limiter and audit sink
// are optional; a nil value disables the corresponding behaviour.
type AuthService struct {
	repo    ports.IdentityRepository
	tokens  *TokenService
	limiter ports.LoginLimiter
	audit   ports.AuditSink
	logger  zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, tokens *TokenService, limiter ports.LoginLimiter, audit ports.AuditSink, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, audit: audit, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, username, password string, roles []string) (*domain.Identity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	for _, r := range roles {
		if !domain.ValidRole(r) {
			return nil, domain.ErrInvalidRole
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Type: domain.AuditRegistered, Username: username, CreatedAt: now})
	return created, nil
}

// Login authenticates a username/password pair and returns a signed token
// carrying the identity's role set at this moment. Unknown usernames and
// wrong passwords are indistinguishable to the caller: both cost one bcrypt
// comparison and both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Identity, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if locked, err := s.isLocked(ctx, username); err != nil {
		s.logger.Warn().Err(err).Msg("login limiter unavailable")
	} else if locked {
		s.record(domain.AuditEvent{Type: domain.AuditLoginLocked, Username: username, CreatedAt: time.Now().UTC()})
		return "", nil, domain.ErrTooManyAttempts
	}

	identity, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			burnPasswordCheck(password)
			s.noteFailure(ctx, username, "unknown username")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find identity: %w", err)
	}

	if err := VerifyPassword(password, identity.PasswordHash); err != nil {
		if errors.Is(err, domain.ErrCorruptCredential) {
			// Data corruption, not a user mistake. Surface for operators.
			s.logger.Error().Str("username", username).Msg("stored password hash is corrupt")
			return "", nil, domain.ErrCorruptCredential
		}
		s.noteFailure(ctx, username, "wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := s.tokens.Issue(identity.Username, identity.Roles, now)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter reset failed")
		}
	}
	s.record(domain.AuditEvent{Type: domain.AuditLoginSuccess, Username: username, CreatedAt: now})

	return token, identity, nil
}

func (s *AuthService) isLocked(ctx context.Context, username string) (bool, error) {
	if s.limiter == nil {
		return false, nil
	}
	return s.limiter.IsLocked(ctx, username)
}

func (s *AuthService) noteFailure(ctx context.Context, username, detail string) {
	if s.limiter != nil {
		if _, err := s.limiter.RecordFailure(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter record failed")
		}
	}
	s.record(domain.AuditEvent{Type: domain.AuditLoginFailure, Username: username, Detail: detail, CreatedAt: time.Now().UTC()})
}

func (s *AuthService) record(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Enqueue(event)
	}
}
