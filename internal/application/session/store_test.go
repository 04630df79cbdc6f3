package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-core/internal/application/dto"
	"github.com/jhoicas/storefront-core/internal/application/session"
	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	"github.com/jhoicas/storefront-core/internal/infrastructure/storage"
	pkgjwt "github.com/jhoicas/storefront-core/pkg/jwt"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuthAPI struct {
	session *dto.AuthSession
	err     error
}

func (f *fakeAuthAPI) Login(context.Context, dto.LoginRequest) (*dto.AuthSession, error) {
	return f.session, f.err
}
func (f *fakeAuthAPI) Register(context.Context, dto.RegisterRequest) (*dto.AuthSession, error) {
	return f.session, f.err
}
func (f *fakeAuthAPI) ForgotPassword(context.Context, string) error { return f.err }
func (f *fakeAuthAPI) VerifyOTP(context.Context, string, string) (string, error) {
	return "reset-token", f.err
}
func (f *fakeAuthAPI) ResetPassword(context.Context, dto.ResetPasswordRequest) error { return f.err }

type fakeUserAPI struct {
	user *entity.UserProfile
	err  error
}

func (f *fakeUserAPI) Profile(context.Context) (*entity.UserProfile, error) { return f.user, f.err }
func (f *fakeUserAPI) UpdateProfile(context.Context, dto.UpdateProfileRequest) (*entity.UserProfile, error) {
	return f.user, f.err
}

func demoUser(roles ...entity.Role) *entity.UserProfile {
	return &entity.UserProfile{ID: "u1", FirstName: "Ana", LastName: "Prueba", Email: "ana@test.dev", Roles: roles}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_FijaSesionYPersiste(t *testing.T) {
	mem := storage.NewMemory()
	auth := &fakeAuthAPI{session: &dto.AuthSession{Token: "tok-1", User: demoUser(entity.RoleUser)}}
	st := session.New(auth, &fakeUserAPI{}, mem, logger.Nop())

	require.NoError(t, st.Login(context.Background(), dto.LoginRequest{Email: "ana@test.dev", Password: "x"}))

	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, "tok-1", st.Token())

	// Un store nuevo sobre el mismo storage restaura la sesión sin re-login.
	// Token opaco no-JWT: IsExpired lo trata como expirado, así que probamos
	// la restauración con un JWT real vigente.
	tok, err := pkgjwt.Generate("s3cret", "u1", "ana@test.dev", []string{"USER"}, "test", 60)
	require.NoError(t, err)
	auth2 := &fakeAuthAPI{session: &dto.AuthSession{Token: tok, User: demoUser(entity.RoleUser)}}
	st2 := session.New(auth2, &fakeUserAPI{}, mem, logger.Nop())
	require.NoError(t, st2.Login(context.Background(), dto.LoginRequest{}))

	st3 := session.New(auth2, &fakeUserAPI{}, mem, logger.Nop())
	assert.True(t, st3.IsAuthenticated(), "la sesión persistida con token vigente debe restaurarse")
	require.NotNil(t, st3.Current().User)
	assert.Equal(t, "u1", st3.Current().User.ID)
}

func TestLogin_FalloDejaSesionLimpia(t *testing.T) {
	auth := &fakeAuthAPI{err: &domain.RemoteError{Status: 401, Message: "credenciales inválidas"}}
	st := session.New(auth, &fakeUserAPI{}, storage.NewMemory(), logger.Nop())

	err := st.Login(context.Background(), dto.LoginRequest{Email: "ana@test.dev"})

	require.Error(t, err)
	assert.Equal(t, "credenciales inválidas", domain.Message(err, "fallback"))
	assert.False(t, st.IsAuthenticated())
	assert.Empty(t, st.Token())
}

func TestRestore_TokenExpiradoSeDescarta(t *testing.T) {
	mem := storage.NewMemory()
	expired, err := pkgjwt.Generate("s3cret", "u1", "ana@test.dev", []string{"USER"}, "test", -5)
	require.NoError(t, err)
	require.NoError(t, mem.Put(session.StorageKey, map[string]any{"token": expired, "user": demoUser(entity.RoleUser)}))

	st := session.New(&fakeAuthAPI{}, &fakeUserAPI{}, mem, logger.Nop())

	assert.False(t, st.IsAuthenticated(), "un token expirado no debe restaurar sesión")
}

func TestLogout_EsIdempotente(t *testing.T) {
	auth := &fakeAuthAPI{session: &dto.AuthSession{Token: "tok", User: demoUser(entity.RoleUser)}}
	st := session.New(auth, &fakeUserAPI{}, storage.NewMemory(), logger.Nop())
	require.NoError(t, st.Login(context.Background(), dto.LoginRequest{}))

	st.Logout()
	st.Logout() // segunda vez no debe fallar ni cambiar nada

	assert.False(t, st.IsAuthenticated())
	assert.Nil(t, st.Current().User)
}

func TestFetchProfile_SinTokenEsNoOp(t *testing.T) {
	users := &fakeUserAPI{user: demoUser(entity.RoleAdmin)}
	st := session.New(&fakeAuthAPI{}, users, storage.NewMemory(), logger.Nop())

	st.FetchProfile(context.Background())

	assert.Nil(t, st.Current().User, "sin token no debe consultarse el perfil")
}

func TestFetchProfile_FalloNoRompeLaSesion(t *testing.T) {
	auth := &fakeAuthAPI{session: &dto.AuthSession{Token: "tok", User: demoUser(entity.RoleUser)}}
	users := &fakeUserAPI{err: &domain.RemoteError{Status: 500, Message: "boom"}}
	st := session.New(auth, users, storage.NewMemory(), logger.Nop())
	require.NoError(t, st.Login(context.Background(), dto.LoginRequest{}))

	st.FetchProfile(context.Background())

	assert.True(t, st.IsAuthenticated(), "un perfil desactualizado es aceptable")
	require.NotNil(t, st.Current().User)
}

func TestIsAdmin_DerivacionPorRoles(t *testing.T) {
	cases := []struct {
		roles []entity.Role
		want  bool
	}{
		{[]entity.Role{entity.RoleUser}, false},
		{[]entity.Role{entity.RoleAdmin}, true},
		{[]entity.Role{entity.RoleUser, entity.RoleManager}, true},
		{[]entity.Role{entity.RoleStaff}, true},
		{nil, false},
	}
	for _, tc := range cases {
		auth := &fakeAuthAPI{session: &dto.AuthSession{Token: "tok", User: demoUser(tc.roles...)}}
		st := session.New(auth, &fakeUserAPI{}, storage.NewMemory(), logger.Nop())
		require.NoError(t, st.Login(context.Background(), dto.LoginRequest{}))
		assert.Equal(t, tc.want, st.IsAdmin(), "roles %v", tc.roles)
	}
}

func TestVerifyOTP_NoTocaLaSesion(t *testing.T) {
	st := session.New(&fakeAuthAPI{}, &fakeUserAPI{}, storage.NewMemory(), logger.Nop())

	tok, err := st.VerifyOTP(context.Background(), "ana@test.dev", "123456")

	require.NoError(t, err)
	assert.Equal(t, "reset-token", tok)
	assert.False(t, st.IsAuthenticated())
}
