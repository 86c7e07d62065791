package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Моки для всех зависимостей AuthService

// MockUserRepo
type MockUserRepo struct {
	CreateFunc         func(ctx context.Context, u *models.User) error
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmailFunc  func(ctx context.Context, email string) (bool, error)
	UpdatePasswordFunc func(ctx context.Context, user *models.User) error
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, user *models.User) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, user)
	}
	return nil
}

// MockProfileRepo
type MockProfileRepo struct {
	CreateFunc       func(ctx context.Context, p *models.Profile) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateFieldsFunc func(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

func (m *MockProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProfileRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

// MockRoleRepo
type MockRoleRepo struct {
	ListByUserFunc func(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
	EnsureFunc     func(ctx context.Context, userID uuid.UUID, role models.Role) error
	RemoveFunc     func(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

func (m *MockRoleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRoleRepo) Ensure(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if m.EnsureFunc != nil {
		return m.EnsureFunc(ctx, userID, role)
	}
	return nil
}

func (m *MockRoleRepo) Remove(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, role)
	}
	return false, nil
}

// MockRefreshRepo
type MockRefreshRepo struct {
	CreateFunc          func(ctx context.Context, t *models.RefreshToken) error
	GetActiveByHashFunc func(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error)
	RevokeByHashFunc    func(ctx context.Context, hash string) (bool, error)
	RevokeAllFunc       func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *MockRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *MockRefreshRepo) GetActiveByHash(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	if m.GetActiveByHashFunc != nil {
		return m.GetActiveByHashFunc(ctx, hash, now)
	}
	return nil, nil
}

func (m *MockRefreshRepo) RevokeByHash(ctx context.Context, hash string) (bool, error) {
	if m.RevokeByHashFunc != nil {
		return m.RevokeByHashFunc(ctx, hash)
	}
	return false, nil
}

func (m *MockRefreshRepo) RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userID)
	}
	return 0, nil
}

// MockPasswordResetRepo
type MockPasswordResetRepo struct {
	CreateFunc           func(ctx context.Context, t *models.PasswordResetToken) error
	FindLatestByUserFunc func(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error)
	GetValidByHashFunc   func(ctx context.Context, codeHash string, now time.Time) (*models.PasswordResetToken, error)
	ConsumeFunc          func(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteAllForUserFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *MockPasswordResetRepo) Create(ctx context.Context, t *models.PasswordResetToken) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *MockPasswordResetRepo) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*models.PasswordResetToken, error) {
	if m.FindLatestByUserFunc != nil {
		return m.FindLatestByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockPasswordResetRepo) GetValidByHash(ctx context.Context, codeHash string, now time.Time) (*models.PasswordResetToken, error) {
	if m.GetValidByHashFunc != nil {
		return m.GetValidByHashFunc(ctx, codeHash, now)
	}
	return nil, repository.ErrNotFound
}

func (m *MockPasswordResetRepo) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, id)
	}
	return true, nil
}

func (m *MockPasswordResetRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.DeleteAllForUserFunc != nil {
		return m.DeleteAllForUserFunc(ctx, userID)
	}
	return 0, nil
}

// MockHasher
type MockHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) bool
}

func (m *MockHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockHasher) Compare(hash, password string) bool {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	return hash == "hashed:"+password
}

// MockTokenProvider
type MockTokenProvider struct {
	SignAccessFunc func(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error)
	NewRefreshFunc func(ctx context.Context, sub uuid.UUID, ttl time.Duration) (string, string, time.Time, error)
	ParseFunc      func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokenProvider) SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, sub, role, ttl)
	}
	return "access-token", time.Now().Add(ttl), nil
}

func (m *MockTokenProvider) NewRefresh(ctx context.Context, sub uuid.UUID, ttl time.Duration) (string, string, time.Time, error) {
	if m.NewRefreshFunc != nil {
		return m.NewRefreshFunc(ctx, sub, ttl)
	}
	return "opaque-refresh", util.Sha256Base64URL("opaque-refresh"), time.Now().Add(ttl), nil
}

func (m *MockTokenProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

type deps struct {
	users          *MockUserRepo
	profiles       *MockProfileRepo
	roles          *MockRoleRepo
	refresh        *MockRefreshRepo
	passwordResets *MockPasswordResetRepo
	hasher         *MockHasher
	tokens         *MockTokenProvider
}

func newTestAuthService(d deps) *service.AuthService {
	if d.users == nil {
		d.users = &MockUserRepo{}
	}
	if d.profiles == nil {
		d.profiles = &MockProfileRepo{}
	}
	if d.roles == nil {
		d.roles = &MockRoleRepo{}
	}
	if d.refresh == nil {
		d.refresh = &MockRefreshRepo{}
	}
	if d.passwordResets == nil {
		d.passwordResets = &MockPasswordResetRepo{}
	}
	if d.hasher == nil {
		d.hasher = &MockHasher{}
	}
	if d.tokens == nil {
		d.tokens = &MockTokenProvider{}
	}

	repo := &repository.Repository{
		Users:          d.users,
		Profiles:       d.profiles,
		Roles:          d.roles,
		RefreshTokens:  d.refresh,
		PasswordResets: d.passwordResets,
	}

	return service.NewAuthService(
		repo,
		d.hasher, d.tokens, nil,
		15*time.Minute, 720*time.Hour,
		zap.NewNop(),
	)
}

func TestRegisterSuccess(t *testing.T) {
	var createdUser *models.User
	var createdProfile *models.Profile
	var ensuredRole models.Role

	users := &MockUserRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, nil },
		CreateFunc: func(ctx context.Context, u *models.User) error {
			createdUser = u
			return nil
		},
	}
	profiles := &MockProfileRepo{
		CreateFunc: func(ctx context.Context, p *models.Profile) error {
			createdProfile = p
			return nil
		},
	}
	roles := &MockRoleRepo{
		EnsureFunc: func(ctx context.Context, userID uuid.UUID, role models.Role) error {
			ensuredRole = role
			return nil
		},
	}

	svc := newTestAuthService(deps{users: users, profiles: profiles, roles: roles})

	u, err := svc.Register(context.Background(), "a@b.com", "secret123", "Alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if createdUser == nil || createdUser.Email != "a@b.com" {
		t.Fatalf("user not created: %+v", createdUser)
	}
	if createdUser.Password != "hashed:secret123" {
		t.Errorf("password not hashed: %q", createdUser.Password)
	}
	if createdProfile == nil || createdProfile.ID != u.ID {
		t.Errorf("profile not linked to user: %+v", createdProfile)
	}
	if createdProfile.Name == nil || *createdProfile.Name != "Alice" {
		t.Errorf("profile name = %v, want Alice", createdProfile.Name)
	}
	if ensuredRole != models.RoleUser {
		t.Errorf("default role = %v, want user", ensuredRole)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &MockUserRepo{
		ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}
	svc := newTestAuthService(deps{users: users})

	_, err := svc.Register(context.Background(), "a@b.com", "secret123", "")
	if !errors.Is(err, service.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	userID := uuid.New()
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: userID, Email: email, Password: "hashed:secret123"}, nil
		},
	}
	roles := &MockRoleRepo{
		ListByUserFunc: func(ctx context.Context, id uuid.UUID) ([]models.Role, error) {
			return []models.Role{models.RoleUser, models.RoleAdmin}, nil
		},
	}
	var storedRefresh *models.RefreshToken
	refresh := &MockRefreshRepo{
		CreateFunc: func(ctx context.Context, rt *models.RefreshToken) error {
			storedRefresh = rt
			return nil
		},
	}

	svc := newTestAuthService(deps{users: users, roles: roles, refresh: refresh})

	gotID, role, pair, err := svc.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if gotID != userID {
		t.Errorf("user id = %v, want %v", gotID, userID)
	}
	// Наивысшая из user+admin — admin.
	if role != models.RoleAdmin {
		t.Errorf("role = %v, want admin", role)
	}
	if pair.AccessToken == "" || pair.RefreshOpaque == "" {
		t.Errorf("incomplete token pair: %+v", pair)
	}
	if storedRefresh == nil || storedRefresh.UserID != userID {
		t.Errorf("refresh token not stored: %+v", storedRefresh)
	}
	// В БД уходит хэш, не сырой токен.
	if storedRefresh.TokenHash != util.Sha256Base64URL(pair.RefreshOpaque) {
		t.Error("stored refresh hash does not match opaque token hash")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email, Password: "hashed:other"}, nil
		},
	}
	svc := newTestAuthService(deps{users: users})

	_, _, _, err := svc.Login(context.Background(), "a@b.com", "secret123")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(deps{})

	_, _, _, err := svc.Login(context.Background(), "nobody@b.com", "secret123")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoginRoleFallbackOnError(t *testing.T) {
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email, Password: "hashed:secret123"}, nil
		},
	}
	roles := &MockRoleRepo{
		ListByUserFunc: func(ctx context.Context, id uuid.UUID) ([]models.Role, error) {
			return nil, errors.New("roles table unavailable")
		},
	}
	svc := newTestAuthService(deps{users: users, roles: roles})

	// Недоступная таблица ролей не блокирует вход — выдаётся user.
	_, role, _, err := svc.Login(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if role != models.RoleUser {
		t.Errorf("role = %v, want user fallback", role)
	}
}

func TestRefreshRotation(t *testing.T) {
	userID := uuid.New()
	opaque := "old-refresh"
	hash := util.Sha256Base64URL(opaque)

	var revokedHash string
	refresh := &MockRefreshRepo{
		GetActiveByHashFunc: func(ctx context.Context, h string, now time.Time) (*models.RefreshToken, error) {
			if h != hash {
				return nil, nil
			}
			return &models.RefreshToken{UserID: userID, TokenHash: h}, nil
		},
		RevokeByHashFunc: func(ctx context.Context, h string) (bool, error) {
			revokedHash = h
			return true, nil
		},
	}
	users := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}

	svc := newTestAuthService(deps{users: users, refresh: refresh})

	gotID, _, pair, err := svc.Refresh(context.Background(), opaque)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if gotID != userID {
		t.Errorf("user id = %v, want %v", gotID, userID)
	}
	if revokedHash != hash {
		t.Error("old refresh token was not revoked")
	}
	if pair.RefreshOpaque == opaque {
		t.Error("expected a new refresh token after rotation")
	}
}

func TestRefreshExpired(t *testing.T) {
	svc := newTestAuthService(deps{})

	_, _, _, err := svc.Refresh(context.Background(), "stale")
	if !errors.Is(err, service.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLogoutUnknownToken(t *testing.T) {
	svc := newTestAuthService(deps{})

	if err := svc.Logout(context.Background(), "unknown"); !errors.Is(err, service.ErrTokenNotFoundOrRevoked) {
		t.Fatalf("expected ErrTokenNotFoundOrRevoked, got %v", err)
	}
	if err := svc.Logout(context.Background(), ""); !errors.Is(err, service.ErrTokenNotFoundOrRevoked) {
		t.Fatalf("expected ErrTokenNotFoundOrRevoked for empty token, got %v", err)
	}
}

func TestLandingPath(t *testing.T) {
	cases := []struct {
		role models.Role
		want string
	}{
		{models.RoleSuperAdmin, "/admin/users"},
		{models.RoleAdmin, "/admin"},
		{models.RoleUser, "/"},
		{models.Role("unknown"), "/"},
	}
	for _, c := range cases {
		if got := service.LandingPath(c.role); got != c.want {
			t.Errorf("LandingPath(%s) = %q, want %q", c.role, got, c.want)
		}
	}
}

func TestRequestPasswordResetCooldown(t *testing.T) {
	userID := uuid.New()
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: userID, Email: email}, nil
		},
	}
	resets := &MockPasswordResetRepo{
		FindLatestByUserFunc: func(ctx context.Context, id uuid.UUID) (*models.PasswordResetToken, error) {
			return &models.PasswordResetToken{UserID: id, CreatedAt: time.Now().Add(-10 * time.Second)}, nil
		},
	}
	svc := newTestAuthService(deps{users: users, passwordResets: resets})

	err := svc.RequestPasswordReset(context.Background(), "a@b.com")
	if !errors.Is(err, service.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
}

func TestRequestPasswordResetCreatesToken(t *testing.T) {
	userID := uuid.New()
	users := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: userID, Email: email}, nil
		},
	}
	var created *models.PasswordResetToken
	resets := &MockPasswordResetRepo{
		CreateFunc: func(ctx context.Context, tok *models.PasswordResetToken) error {
			created = tok
			return nil
		},
	}
	svc := newTestAuthService(deps{users: users, passwordResets: resets})

	if err := svc.RequestPasswordReset(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if created == nil || created.UserID != userID {
		t.Fatalf("reset token not created: %+v", created)
	}
	if created.CodeHash == "" {
		t.Error("expected hashed code in reset token")
	}
	if until := time.Until(created.ExpiresAt); until < 55*time.Minute || until > 65*time.Minute {
		t.Errorf("unexpected expiry window: %v", until)
	}
}

func TestConfirmPasswordReset(t *testing.T) {
	userID := uuid.New()
	resetID := uuid.New()
	code := "123456"

	resets := &MockPasswordResetRepo{
		GetValidByHashFunc: func(ctx context.Context, codeHash string, now time.Time) (*models.PasswordResetToken, error) {
			if codeHash != util.Sha256Base64URL(code) {
				return nil, repository.ErrNotFound
			}
			return &models.PasswordResetToken{ID: resetID, UserID: userID}, nil
		},
	}
	users := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Password: "hashed:old"}, nil
		},
	}
	var updated *models.User
	users.UpdatePasswordFunc = func(ctx context.Context, u *models.User) error {
		updated = u
		return nil
	}
	var revokedAll bool
	refresh := &MockRefreshRepo{
		RevokeAllFunc: func(ctx context.Context, id uuid.UUID) (int64, error) {
			revokedAll = true
			return 1, nil
		},
	}

	svc := newTestAuthService(deps{users: users, refresh: refresh, passwordResets: resets})

	if err := svc.ConfirmPasswordReset(context.Background(), code, "newsecret"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if updated == nil || updated.Password != "hashed:newsecret" {
		t.Errorf("password not updated: %+v", updated)
	}
	// Смена пароля гасит все активные сессии.
	if !revokedAll {
		t.Error("expected all refresh tokens revoked")
	}
}

func TestConfirmPasswordResetBadCode(t *testing.T) {
	svc := newTestAuthService(deps{})

	err := svc.ConfirmPasswordReset(context.Background(), "000000", "newsecret")
	if !errors.Is(err, service.ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode, got %v", err)
	}
}
