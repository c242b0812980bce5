package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// VerificationService secuencia el flujo emitir sesión → resolver enlace →
// vincular dispositivo → emitir token firmado. No guarda estado propio.
type VerificationService struct {
	logger  *zap.Logger
	store   *SessionStore
	codec   *TokenCodec
	baseURL string
}

// IssueResult es la respuesta de IssueSession.
type IssueResult struct {
	SessionToken string `json:"sessionToken"`
	ShortURL     string `json:"shortUrl"`
}

// VerifyResult es la respuesta de CompleteVerification.
type VerifyResult struct {
	SignedToken  string `json:"signedToken"`
	NextVerifyAt int64  `json:"nextVerifyAt"`
}

func NewVerificationService(logger *zap.Logger, store *SessionStore, codec *TokenCodec, baseURL string) *VerificationService {
	return &VerificationService{
		logger:  logger,
		store:   store,
		codec:   codec,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// IssueSession crea una sesión nueva y arma el enlace corto para compartir.
func (s *VerificationService) IssueSession() IssueResult {
	session := s.store.Create()
	s.logger.Info("session issued", zap.String("short_id", session.ShortID))
	return IssueResult{
		SessionToken: session.Token,
		ShortURL:     fmt.Sprintf("%s/verify/%s", s.baseURL, session.ShortID),
	}
}

// ResolveShortLink devuelve el session token detrás de un short id vivo.
func (s *VerificationService) ResolveShortLink(shortID string) (string, error) {
	session, err := s.store.FindByShortID(shortID)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// CompleteVerification vincula el dispositivo a la sesión y emite el token
// firmado. Propaga ErrSessionInvalid y ErrSessionExpired sin mutar nada.
func (s *VerificationService) CompleteVerification(sessionToken, deviceHash string) (VerifyResult, error) {
	session, err := s.store.Bind(sessionToken, deviceHash)
	if err != nil {
		return VerifyResult{}, err
	}

	signed, expiresAt, err := s.codec.Sign(session.DeviceHash)
	if err != nil {
		return VerifyResult{}, err
	}

	s.logger.Info("device verified", zap.String("short_id", session.ShortID))
	return VerifyResult{SignedToken: signed, NextVerifyAt: expiresAt}, nil
}

// CheckToken valida un token firmado sin consultar la tabla de sesiones.
func (s *VerificationService) CheckToken(token string) bool {
	return s.codec.Verify(token)
}
