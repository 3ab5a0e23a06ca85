package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory repository.UserRepository. A hand-written
// fake (not a mock framework) keeps the behaviour visible in the test file.
type fakeUserRepo struct {
	users      map[string]*model.User // keyed by internal ID
	byUsername map[string]*model.User
	byGHID     map[int64]*model.User
	nextID     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
		byGHID:     make(map[int64]*model.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, taken := f.byUsername[user.Username]; taken {
		return apperror.Conflict("user", fmt.Sprintf("username %s is taken", user.Username))
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	f.users[user.ID] = &copied
	f.byUsername[user.Username] = &copied
	if user.GitHubID != 0 {
		f.byGHID[user.GitHubID] = &copied
	}
	return nil
}

func (f *fakeUserRepo) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	if existing, ok := f.byGHID[user.GitHubID]; ok {
		existing.Username = user.Username
		existing.Email = user.Email
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	return f.CreateUser(ctx, user)
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		result = append(result, *u)
	}
	return result, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	delete(f.byUsername, u.Username)
	if u.GitHubID != 0 {
		delete(f.byGHID, u.GitHubID)
	}
	return nil
}

// newTestAuthService wires an AuthService with fake storage, a test JWT
// secret, and bcrypt cost 4 (the minimum — keeps tests fast).
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	ps := auth.NewPasswordServiceForTest(4)

	return NewAuthService(repo, ts, ps, testLogger())
}

// =========================================================================
// REGISTER / LOGIN TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "alice", "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.User.ID == "" {
		t.Error("Register() did not assign a user ID")
	}
	if result.Token == "" {
		t.Error("Register() did not issue a token")
	}
	// The plaintext must never be stored
	if result.User.PasswordHash == "correct horse battery" {
		t.Error("password stored in plaintext")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	if _, err := svc.Register(context.Background(), "al", "", "long enough password"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("short username: error = %v, want ErrValidation", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "", "short"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("short password: error = %v, want ErrValidation", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "", "password-one"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "", "password-two")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "", "alicepassword"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "alicepassword")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() did not issue a token")
	}

	// The token round-trips through validation back to the user ID
	userID, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token subject = %q, want %q", userID, result.User.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "alice", "", "alicepassword"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() wrong password error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	// Same error as a wrong password — no username enumeration.
	_, err := svc.Login(context.Background(), "nobody", "whatever-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() unknown user error = %v, want ErrUnauthorized", err)
	}
}

// =========================================================================
// GITHUB OAUTH TESTS
// =========================================================================

func TestLoginOrRegisterGitHub_NewUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	ghUser := &auth.GitHubUser{
		ID:        42,
		Login:     "octocat",
		Email:     "octocat@github.com",
		AvatarURL: "https://avatars.githubusercontent.com/u/42",
	}

	result, err := svc.LoginOrRegisterGitHub(context.Background(), ghUser)
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}

	if result.User.Username != "octocat" {
		t.Errorf("Username = %q, want %q", result.User.Username, "octocat")
	}
	if result.Token == "" {
		t.Error("LoginOrRegisterGitHub() did not issue a token")
	}
}

func TestLoginOrRegisterGitHub_ExistingUserKeepsID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	first, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{ID: 42, Login: "octocat"})
	if err != nil {
		t.Fatalf("first login error = %v", err)
	}

	second, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{ID: 42, Login: "octocat", Email: "new@github.com"})
	if err != nil {
		t.Fatalf("second login error = %v", err)
	}

	if second.User.ID != first.User.ID {
		t.Errorf("second login ID = %q, want the original %q", second.User.ID, first.User.ID)
	}
}

func TestLoginOrRegisterGitHub_NilUser(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	if _, err := svc.LoginOrRegisterGitHub(context.Background(), nil); err == nil {
		t.Error("LoginOrRegisterGitHub(nil) should fail")
	}
}

// =========================================================================
// ACCOUNT DELETION
// =========================================================================

func TestDeleteAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	result, err := svc.Register(context.Background(), "alice", "", "alicepassword")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), result.User.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	if _, err := svc.GetUserByID(context.Background(), result.User.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user still exists after DeleteAccount: err = %v", err)
	}
}
