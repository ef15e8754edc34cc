package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renalreg/registry/internal/domain/institute"
	"github.com/renalreg/registry/internal/platform/auth"
)

// -- Mocks --

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByInstitute(_ context.Context, instituteID uuid.UUID, limit, offset int) ([]*User, int, error) {
	var result []*User
	for _, u := range m.users {
		if u.InstituteID != nil && *u.InstituteID == instituteID {
			result = append(result, u)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) SetStatus(_ context.Context, id uuid.UUID, status int) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return u, nil
}

type mockInstitutes struct {
	institutes map[uuid.UUID]*institute.Institute
}

func (m *mockInstitutes) Get(_ context.Context, id uuid.UUID) (*institute.Institute, error) {
	inst, ok := m.institutes[id]
	if !ok {
		return nil, institute.ErrNotFound
	}
	return inst, nil
}

func newTestService() (*Service, *mockRepo, *mockInstitutes) {
	repo := newMockRepo()
	insts := &mockInstitutes{institutes: make(map[uuid.UUID]*institute.Institute)}
	codec := auth.NewTokenCodec([]byte("test-signing-secret"), time.Minute)
	return NewService(repo, codec, insts, zerolog.Nop()), repo, insts
}

func createTestUser(t *testing.T, svc *Service, role auth.Role, instituteID *uuid.UUID) *User {
	t.Helper()
	u, err := svc.Create(context.Background(), CreateParams{
		Name:        "Test User",
		Email:       string(role) + "@example.org",
		Password:    "s3cret-pass",
		Role:        role,
		InstituteID: instituteID,
	})
	if err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	return u
}

// -- Tests --

func TestCreate_HashesPassword(t *testing.T) {
	svc, _, _ := newTestService()
	u := createTestUser(t, svc, auth.RoleAdmin, nil)

	if u.PasswordHash == "s3cret-pass" {
		t.Error("password stored in the clear")
	}
	if err := auth.VerifyPassword(u.PasswordHash, "s3cret-pass"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if u.Status != auth.StatusActive {
		t.Errorf("status = %d, want active", u.Status)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := map[string]CreateParams{
		"no email":              {Password: "p", Role: auth.RoleAdmin},
		"no password":           {Email: "a@b.org", Role: auth.RoleAdmin},
		"bad role":              {Email: "a@b.org", Password: "p", Role: auth.Role("AUDITOR")},
		"institute role, no id": {Email: "a@b.org", Password: "p", Role: auth.RoleDataEntry},
	}
	for name, p := range cases {
		if _, err := svc.Create(context.Background(), p); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	createTestUser(t, svc, auth.RoleAdmin, nil)

	_, err := svc.Create(context.Background(), CreateParams{
		Email:    "ADMIN@example.org",
		Password: "p",
		Role:     auth.RoleAdmin,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	created := createTestUser(t, svc, auth.RoleAdmin, nil)

	u, token, err := svc.Login(context.Background(), created.Email, "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("user id = %s", u.ID)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	claims, err := svc.codec.Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UserID != created.ID.String() || claims.Role != auth.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()
	created := createTestUser(t, svc, auth.RoleAdmin, nil)

	_, _, wrongPass := svc.Login(context.Background(), created.Email, "wrong")
	_, _, unknownUser := svc.Login(context.Background(), "nobody@example.org", "s3cret-pass")

	if !errors.Is(wrongPass, ErrBadCredentials) {
		t.Errorf("wrong password: %v", wrongPass)
	}
	if !errors.Is(unknownUser, ErrBadCredentials) {
		t.Errorf("unknown user: %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Error("login failures are distinguishable")
	}
}

func TestLogin_DisabledUserStillAuthenticates(t *testing.T) {
	svc, _, _ := newTestService()
	created := createTestUser(t, svc, auth.RoleDataEntry, ptr(uuid.New()))

	if _, err := svc.Disable(context.Background(), created.ID); err != nil {
		t.Fatalf("disable: %v", err)
	}
	// The account can still log in; the access engine reports the disabled
	// state instead of masking it as a credential failure.
	u, token, err := svc.Login(context.Background(), created.Email, "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("no token issued")
	}
	if auth.CanAccessSystem(u.Identity(), nil) {
		t.Error("disabled account retained system access")
	}
}

func TestRegisterToInstitute_ScopesRoleAndInstitute(t *testing.T) {
	svc, _, _ := newTestService()
	instID := uuid.New()

	u, err := svc.RegisterToInstitute(context.Background(), instID, CreateParams{
		Email:    "entry@example.org",
		Password: "p",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != auth.RoleDataEntry {
		t.Errorf("default role = %s, want DATA_ENTRY", u.Role)
	}
	if u.InstituteID == nil || *u.InstituteID != instID {
		t.Errorf("instituteId = %v, want %s", u.InstituteID, instID)
	}

	if _, err := svc.RegisterToInstitute(context.Background(), instID, CreateParams{
		Email:    "escalate@example.org",
		Password: "p",
		Role:     auth.RoleSuperAdmin,
	}); err == nil {
		t.Error("institute admin granted SUPER_ADMIN")
	}
}

func TestRegisterInstituteAdmin(t *testing.T) {
	svc, repo, _ := newTestService()
	instID := uuid.New()

	if err := svc.RegisterInstituteAdmin(context.Background(), instID, "Dr. Rao", "rao@example.org", "p"); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	u, err := repo.GetByEmail(context.Background(), "rao@example.org")
	if err != nil || u == nil {
		t.Fatalf("lookup: %v, %v", u, err)
	}
	if u.Role != auth.RoleInstituteAdmin || u.InstituteID == nil || *u.InstituteID != instID {
		t.Errorf("founding admin = %+v", u)
	}
}

func TestFindIdentity(t *testing.T) {
	svc, _, _ := newTestService()
	created := createTestUser(t, svc, auth.RoleAdmin, nil)

	ident, err := svc.FindIdentity(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ident == nil || ident.ID != created.ID || ident.Role != auth.RoleAdmin {
		t.Errorf("identity = %+v", ident)
	}

	// Unknown ids resolve to nothing, not an error.
	ident, err = svc.FindIdentity(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if ident != nil {
		t.Errorf("stale id resolved: %+v", ident)
	}
}

func TestStatus_WithInstitute(t *testing.T) {
	svc, _, insts := newTestService()
	instID := uuid.New()
	insts.institutes[instID] = &institute.Institute{
		ID:             instID,
		Name:           "St. Mary Pediatric Nephrology",
		ApprovalStatus: auth.PendingApproval,
		Status:         auth.StatusActive,
	}
	created := createTestUser(t, svc, auth.RoleInstituteAdmin, &instID)

	report, err := svc.Status(context.Background(), created.Identity())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Institute == nil || !report.Institute.IsPending {
		t.Errorf("institute snapshot = %+v", report.Institute)
	}
	if !report.CanAccessSystem {
		t.Error("pending institute admin denied access")
	}
	if report.Permissions.CanEnterData {
		t.Error("pending institute admin can enter data")
	}
	if !strings.Contains(report.StatusMessage, "pending approval") {
		t.Errorf("statusMessage = %q", report.StatusMessage)
	}
}

func TestStatus_DanglingInstituteDegrades(t *testing.T) {
	svc, _, _ := newTestService()
	gone := uuid.New()
	created := createTestUser(t, svc, auth.RoleDataEntry, &gone)

	report, err := svc.Status(context.Background(), created.Identity())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Institute != nil {
		t.Errorf("snapshot for missing institute: %+v", report.Institute)
	}
	if report.CanAccessSystem {
		t.Error("user with dangling institute granted access")
	}
	if !strings.Contains(report.StatusMessage, "No institute assigned") {
		t.Errorf("statusMessage = %q", report.StatusMessage)
	}
}

func TestEnableDisable(t *testing.T) {
	svc, _, _ := newTestService()
	created := createTestUser(t, svc, auth.RoleAdmin, nil)

	u, err := svc.Disable(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if u.Status != 0 {
		t.Errorf("status after disable = %d", u.Status)
	}

	u, err = svc.Enable(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if u.Status != auth.StatusActive {
		t.Errorf("status after enable = %d", u.Status)
	}

	if _, err := svc.Disable(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("disable missing: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
