package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub user repository (the directory)
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == strings.ToLower(user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	copy.Email = strings.ToLower(copy.Email)
	r.nextID++
	copy.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Search applies the same matching and ordering rules as the Mongo adapter.
func (r *stubUserRepo) Search(_ context.Context, keyword string, page, pageSize int) ([]*domain.User, int64, error) {
	kw := strings.ToLower(keyword)
	var matched []*domain.User
	for _, u := range r.users {
		if kw == "" ||
			strings.Contains(u.Email, kw) ||
			strings.Contains(strings.ToLower(u.Name), kw) {
			matched = append(matched, cloneUser(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	total := int64(len(matched))
	skip := (page - 1) * pageSize
	if skip >= len(matched) {
		return nil, total, nil
	}
	end := skip + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

// mustRegister seeds a user through the real registration path.
func mustRegister(t *testing.T, svc *AuthService, email, name string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), email, name, "sw0rdf1sh42")
	if err != nil {
		t.Fatalf("Register(%s) returned error: %v", email, err)
	}
	return u
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, 24*time.Hour)

	user, err := svc.Register(context.Background(), "Alice@Example.com", "Alice", "sw0rdf1sh42")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lower-cased email, got %s", user.Email)
	}
	if user.PasswordHash == "sw0rdf1sh42" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("sw0rdf1sh42")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.IsActive {
		t.Fatalf("expected new user to be active")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, 24*time.Hour)

	cases := []struct {
		name            string
		email, userName string
		password        string
	}{
		{"malformed email", "not-an-email", "Bob", "pass12345"},
		{"empty name", "bob@example.com", "  ", "pass12345"},
		{"empty password", "bob@example.com", "Bob", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.email, tc.userName, tc.password); !errors.Is(err, domain.ErrInvalidUser) {
			t.Fatalf("%s: expected ErrInvalidUser, got %v", tc.name, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, 24*time.Hour)

	mustRegister(t, svc, "bob@example.com", "Bob")
	if _, err := svc.Register(context.Background(), "BOB@example.com", "Bobby", "pass12345"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for case-insensitive duplicate, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login / Refresh
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, 24*time.Hour)
	mustRegister(t, svc, "carol@example.com", "Carol")

	pair, err := svc.Login(context.Background(), "carol@example.com", "sw0rdf1sh42")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.Access == pair.Refresh {
		t.Fatalf("access and refresh tokens must differ")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, 24*time.Hour)
	mustRegister(t, svc, "carol@example.com", "Carol")

	if _, err := svc.Login(context.Background(), "carol@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "sw0rdf1sh42"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, 24*time.Hour)
	mustRegister(t, svc, "dave@example.com", "Dave")

	pair, err := svc.Login(context.Background(), "dave@example.com", "sw0rdf1sh42")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	access, err := svc.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if access == "" {
		t.Fatalf("expected a new access token")
	}

	// An access token must not be usable as a refresh token.
	if _, err := svc.Refresh(context.Background(), pair.Access); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for access token, got %v", err)
	}

	// Garbage input.
	if _, err := svc.Refresh(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for garbage, got %v", err)
	}
}
