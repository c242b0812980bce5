package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"verilink/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInvalid  = errors.New("session token invalid")
	ErrSessionExpired  = errors.New("session expired")
)

// DefaultSessionTTL es la vida máxima de una sesión sin vincular.
const DefaultSessionTTL = time.Hour

const shortIDLength = 8

// SessionStore mantiene la tabla de sesiones de verificación vivas.
// Un único mutex cubre inserción, lookup, bind, borrado y el barrido de
// expiradas, de modo que el barrido nunca observa una sesión a medio vincular.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	byShort  map[string]string
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore crea un store en memoria con el TTL indicado.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		byShort:  make(map[string]string),
		ttl:      ttl,
		now:      time.Now,
	}
}

// DeriveShortID calcula el identificador corto de un session token:
// los primeros 8 caracteres hex del sha256 del token.
func DeriveShortID(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])[:shortIDLength]
}

// Create genera una sesión nueva sin vincular. Barre las sesiones expiradas
// y regenera el token mientras el short id derivado colisione con una viva.
func (s *SessionStore) Create() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.sweepLocked(now)

	token := uuid.NewString()
	shortID := DeriveShortID(token)
	for {
		_, tokenTaken := s.sessions[token]
		_, shortTaken := s.byShort[shortID]
		if !tokenTaken && !shortTaken {
			break
		}
		token = uuid.NewString()
		shortID = DeriveShortID(token)
	}

	session := domain.Session{
		Token:     token,
		ShortID:   shortID,
		CreatedAt: now,
	}
	s.sessions[token] = session
	s.byShort[shortID] = token
	return session
}

// FindByShortID resuelve un short id a su sesión viva.
func (s *SessionStore) FindByShortID(shortID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.byShort[shortID]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	session := s.sessions[token]
	if s.expired(session, s.now().UTC()) {
		s.removeLocked(session)
		return domain.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Bind marca la sesión como verificada y registra el device hash.
// Un segundo Bind sobre la misma sesión sobrescribe el device hash;
// quien necesite "primer bind gana" debe consultar Verified antes.
func (s *SessionStore) Bind(sessionToken, deviceHash string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionToken]
	if !ok {
		return domain.Session{}, ErrSessionInvalid
	}
	if s.expired(session, s.now().UTC()) {
		s.removeLocked(session)
		return domain.Session{}, ErrSessionExpired
	}

	session.Verified = true
	session.DeviceHash = deviceHash
	s.sessions[sessionToken] = session
	return session, nil
}

// Len devuelve la cantidad de sesiones vivas (incluye las expiradas aún no barridas).
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(session domain.Session, now time.Time) bool {
	return now.Sub(session.CreatedAt) > s.ttl
}

// sweepLocked es O(n) por emisión; aceptable mientras el store se mantenga
// pequeño y local al proceso.
func (s *SessionStore) sweepLocked(now time.Time) {
	for token, session := range s.sessions {
		if now.Sub(session.CreatedAt) > s.ttl {
			delete(s.sessions, token)
			delete(s.byShort, session.ShortID)
		}
	}
}

func (s *SessionStore) removeLocked(session domain.Session) {
	delete(s.sessions, session.Token)
	delete(s.byShort, session.ShortID)
}
