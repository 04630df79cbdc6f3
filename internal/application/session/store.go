// Package session mantiene la sesión de autenticación del cliente: usuario,
// token y su persistencia local para sobrevivir recargas sin re-login.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/storefront-core/internal/application/dto"
	"github.com/jhoicas/storefront-core/internal/application/ports"
	"github.com/jhoicas/storefront-core/internal/domain/entity"
	pkgjwt "github.com/jhoicas/storefront-core/pkg/jwt"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// StorageKey clave fija bajo la que se persiste la sesión.
const StorageKey = "auth-storage"

// persistedState lo único que se guarda en disco: token y perfil (datos ya
// públicos para el propio usuario). Nada sensible adicional.
type persistedState struct {
	Token string              `json:"token"`
	User  *entity.UserProfile `json:"user"`
}

// Store único escritor de la sesión. El gateway lee el token vía Token();
// nadie más la muta.
type Store struct {
	auth    ports.AuthAPI
	users   ports.UserAPI
	storage ports.Storage
	log     *logger.Logger

	mu   sync.Mutex
	sess entity.Session
}

// New construye el store y restaura la sesión persistida si el token sigue
// vigente; un token expirado o ilegible se descarta en silencio.
func New(auth ports.AuthAPI, users ports.UserAPI, storage ports.Storage, log *logger.Logger) *Store {
	s := &Store{auth: auth, users: users, storage: storage, log: log}
	s.restore()
	return s
}

func (s *Store) restore() {
	var p persistedState
	ok, err := s.storage.Get(StorageKey, &p)
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo leer la sesión persistida")
		return
	}
	if !ok || p.Token == "" {
		return
	}
	if pkgjwt.IsExpired(p.Token, time.Now()) {
		s.log.Debug().Msg("token persistido expirado, sesión descartada")
		_ = s.storage.Delete(StorageKey)
		return
	}
	s.mu.Lock()
	s.sess = entity.Session{Token: p.Token, User: p.User}
	s.mu.Unlock()
}

func (s *Store) persist() {
	s.mu.Lock()
	p := persistedState{Token: s.sess.Token, User: s.sess.User}
	s.mu.Unlock()
	if p.Token == "" {
		if err := s.storage.Delete(StorageKey); err != nil {
			s.log.Warn().Err(err).Msg("no se pudo borrar la sesión persistida")
		}
		return
	}
	if err := s.storage.Put(StorageKey, p); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo persistir la sesión")
	}
}

func (s *Store) setSession(sess entity.Session) {
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()
	s.persist()
}

// Login canjea credenciales por {token, user} y fija la sesión atómicamente.
// Ante un fallo la sesión queda limpia.
func (s *Store) Login(ctx context.Context, in dto.LoginRequest) error {
	out, err := s.auth.Login(ctx, in)
	if err != nil {
		s.setSession(entity.Session{})
		return fmt.Errorf("login: %w", err)
	}
	s.setSession(entity.Session{Token: out.Token, User: out.User})
	s.log.Info().Str("email", in.Email).Msg("sesión iniciada")
	return nil
}

// Register mismo contrato que Login, creando un usuario nuevo.
func (s *Store) Register(ctx context.Context, in dto.RegisterRequest) error {
	out, err := s.auth.Register(ctx, in)
	if err != nil {
		s.setSession(entity.Session{})
		return fmt.Errorf("registro: %w", err)
	}
	s.setSession(entity.Session{Token: out.Token, User: out.User})
	return nil
}

// ForgotPassword dispara el envío del código. No toca la sesión.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	return s.auth.ForgotPassword(ctx, email)
}

// VerifyOTP canjea el código por el token corto de reseteo. No toca la sesión.
func (s *Store) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	return s.auth.VerifyOTP(ctx, email, otp)
}

// ResetPassword finaliza el reseteo. No toca la sesión: el usuario debe
// iniciar sesión de nuevo.
func (s *Store) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	return s.auth.ResetPassword(ctx, in)
}

// Logout limpia la sesión incondicionalmente. Idempotente; también lo invoca
// el gateway ante un 401.
func (s *Store) Logout() {
	s.setSession(entity.Session{})
}

// FetchProfile refresca el perfil desde el servidor. Sin token es un no-op y
// los fallos solo se registran: un perfil desactualizado es aceptable.
func (s *Store) FetchProfile(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	user, err := s.users.Profile(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo refrescar el perfil")
		return
	}
	s.mu.Lock()
	s.sess.User = user
	s.mu.Unlock()
	s.persist()
}

// UpdateProfile edita los datos del perfil y refleja la respuesta del servidor.
func (s *Store) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) error {
	user, err := s.users.UpdateProfile(ctx, in)
	if err != nil {
		return fmt.Errorf("actualizar perfil: %w", err)
	}
	s.mu.Lock()
	s.sess.User = user
	s.mu.Unlock()
	s.persist()
	return nil
}

// Token acceso de solo lectura para el gateway.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token
}

// Current copia de la sesión actual.
func (s *Store) Current() entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// IsAuthenticated hay sesión exactamente cuando hay token.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin derivación pura: algún rol en {ADMIN, MANAGER, STAFF}.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.User.IsPrivileged()
}
