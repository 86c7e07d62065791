package service

import (
	"context"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
)

// Пути посадки после входа, по роли.
const (
	LandingSuperAdmin = "/admin/users"
	LandingAdmin      = "/admin"
	LandingDefault    = "/"
)

type AuthService struct {
	users          repository.UserRepo
	profiles       repository.ProfileRepo
	roles          repository.RoleRepo
	refresh        repository.RefreshRepo
	passwordResets repository.PasswordResetRepo

	hasher PasswordHasher
	tokens TokenProvider
	sender ResetCodeSender // может быть nil

	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	log *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	hasher PasswordHasher,
	tokens TokenProvider,
	sender ResetCodeSender,
	accessTTL, refreshTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:          repo.Users,
		profiles:       repo.Profiles,
		roles:          repo.Roles,
		refresh:        repo.RefreshTokens,
		passwordResets: repo.PasswordResets,

		hasher: hasher,
		tokens: tokens,
		sender: sender,

		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		log:        log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hash,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	profile := &models.Profile{ID: u.ID, Email: &u.Email}
	if name != "" {
		profile.Name = &name
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.roles.Ensure(ctx, u.ID, models.RoleUser); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (uuid.UUID, models.Role, TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, "", TokenPair{}, err
	}
	if user == nil {
		return uuid.Nil, "", TokenPair{}, ErrNotFound
	}
	if !s.hasher.Compare(user.Password, password) {
		return uuid.Nil, "", TokenPair{}, ErrInvalidCredentials
	}

	role := s.ResolveRole(ctx, user.ID)

	pair, err := s.issueTokens(ctx, user.ID, role)
	if err != nil {
		return uuid.Nil, "", TokenPair{}, err
	}
	return user.ID, role, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, opaque string) (uuid.UUID, models.Role, TokenPair, error) {
	hash := util.Sha256Base64URL(opaque)

	rt, err := s.refresh.GetActiveByHash(ctx, hash, s.now())
	if err != nil {
		return uuid.Nil, "", TokenPair{}, err
	}
	if rt == nil {
		return uuid.Nil, "", TokenPair{}, ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil || user == nil {
		if err == nil {
			err = ErrNotFound
		}
		return uuid.Nil, "", TokenPair{}, err
	}

	// Ротация: старый refresh гасим до выдачи нового
	if _, err := s.refresh.RevokeByHash(ctx, hash); err != nil {
		return uuid.Nil, "", TokenPair{}, err
	}

	role := s.ResolveRole(ctx, user.ID)

	pair, err := s.issueTokens(ctx, user.ID, role)
	if err != nil {
		return uuid.Nil, "", TokenPair{}, err
	}
	return user.ID, role, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, opaque string) error {
	if opaque == "" {
		return ErrTokenNotFoundOrRevoked
	}
	hash := util.Sha256Base64URL(opaque)

	ok, err := s.refresh.RevokeByHash(ctx, hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenNotFoundOrRevoked
	}
	return nil
}

// ResolveRole возвращает наивысшую роль пользователя. При любой ошибке —
// наименее привилегированная роль: вход не должен блокироваться из-за
// недоступной таблицы ролей.
func (s *AuthService) ResolveRole(ctx context.Context, userID uuid.UUID) models.Role {
	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		s.log.Warn("Не удалось получить роли пользователя, используется user",
			zap.String("user_id", userID.String()), zap.Error(err))
		return models.RoleUser
	}
	return models.HighestRole(roles)
}

// LandingPath — маршрут после входа в зависимости от роли.
func LandingPath(role models.Role) string {
	switch role {
	case models.RoleSuperAdmin:
		return LandingSuperAdmin
	case models.RoleAdmin:
		return LandingAdmin
	default:
		return LandingDefault
	}
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}

	latest, err := s.passwordResets.FindLatestByUser(ctx, u.ID)
	if err == nil && latest != nil {
		cooldownDuration := time.Minute
		if s.now().Sub(latest.CreatedAt) < cooldownDuration {
			return ErrTooManyRequests
		}
	}

	code, err := nanorand.Gen(6)
	if err != nil {
		return err
	}

	reset := &models.PasswordResetToken{
		UserID:    u.ID,
		Email:     email,
		CodeHash:  util.Sha256Base64URL(code),
		ExpiresAt: s.now().Add(1 * time.Hour),
		Consumed:  false,
	}

	if err := s.passwordResets.Create(ctx, reset); err != nil {
		return err
	}

	if s.sender != nil {
		if err := s.sender.SendResetCode(email, code); err != nil {
			s.log.Error("Не удалось отправить код сброса пароля", zap.Error(err))
			return err
		}
	} else {
		// SMTP выключен — код остаётся в логах для ручной доставки
		s.log.Info("Код сброса пароля", zap.String("code", code))
	}

	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	codeHash := util.Sha256Base64URL(code)

	reset, err := s.passwordResets.GetValidByHash(ctx, codeHash, s.now())
	if err != nil {
		return ErrInvalidOrExpiredCode
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil || user == nil {
		return ErrNotFound
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = newHash
	if err := s.users.UpdatePassword(ctx, user); err != nil {
		return err
	}

	if _, err := s.passwordResets.Consume(ctx, reset.ID); err != nil {
		s.log.Info("Failed to consume password reset token", zap.Error(err))
	}

	if _, err := s.refresh.RevokeAll(ctx, user.ID); err != nil {
		s.log.Info("Failed to revoke refresh tokens", zap.Error(err))
	}

	if _, err := s.passwordResets.DeleteAllForUser(ctx, user.ID); err != nil {
		s.log.Info("Failed to delete password reset tokens", zap.Error(err))
	}

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID, role models.Role) (TokenPair, error) {
	access, aexp, err := s.tokens.SignAccess(ctx, userID, string(role), s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	opaque, hash, rexp, err := s.tokens.NewRefresh(ctx, userID, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	rt := &models.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: rexp,
	}
	if err := s.refresh.Create(ctx, rt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  aexp,
		RefreshOpaque:    opaque,
		RefreshExpiresAt: rexp,
		RefreshHash:      hash,
	}, nil
}
