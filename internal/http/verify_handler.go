package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"verilink/internal/service"
)

// VerifyHandler mantiene dependencias para los endpoints de verificación.
type VerifyHandler struct {
	logger         *zap.Logger
	verifyServ     *service.VerificationService
	limiter        service.IssueRateLimiter
	deeplinkScheme string
}

// NewVerifyHandler crea una instancia de VerifyHandler con sus dependencias.
func NewVerifyHandler(logger *zap.Logger, verifyServ *service.VerificationService, limiter service.IssueRateLimiter, deeplinkScheme string) *VerifyHandler {
	if deeplinkScheme == "" {
		deeplinkScheme = "myapp"
	}
	return &VerifyHandler{
		logger:         logger,
		verifyServ:     verifyServ,
		limiter:        limiter,
		deeplinkScheme: deeplinkScheme,
	}
}

// GetShortLink maneja GET /getShortLink.
func (h *VerifyHandler) GetShortLink(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		h.logger.Warn("issue rate limited", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
		return
	}

	result := h.verifyServ.IssueSession()
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"sessionToken": result.SessionToken,
		"shortUrl":     result.ShortURL,
	})
}

// VerifyPage maneja GET /verify/:shortId y renderiza la página de hand-off
// con el deep link de vuelta a la app.
func (h *VerifyHandler) VerifyPage(c *gin.Context) {
	sessionToken, err := h.verifyServ.ResolveShortLink(c.Param("shortId"))
	if err != nil {
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.String(http.StatusNotFound, "Invalid or expired verification link")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	data := verifyPageData{SessionToken: sessionToken, Scheme: h.deeplinkScheme}
	if err := verifyPageTmpl.Execute(c.Writer, data); err != nil {
		h.logger.Error("render verify page failed", zap.Error(err))
	}
}

// VerifyDevice maneja POST /verifyDevice.
func (h *VerifyHandler) VerifyDevice(c *gin.Context) {
	var req struct {
		SessionToken string `json:"sessionToken" binding:"required"`
		DeviceHash   string `json:"deviceHash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify device request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	result, err := h.verifyServ.CompleteVerification(req.SessionToken, req.DeviceHash)
	switch {
	case errors.Is(err, service.ErrSessionInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid session token"})
		return
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Session expired"})
		return
	case err != nil:
		h.logger.Error("complete verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not verify device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"signedToken":  result.SignedToken,
		"nextVerifyAt": result.NextVerifyAt,
		"message":      "Device verified successfully",
	})
}

// ValidateToken maneja POST /validateToken.
func (h *VerifyHandler) ValidateToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid validate token request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"valid":   h.verifyServ.CheckToken(req.Token),
	})
}

// Health maneja GET /health.
func (h *VerifyHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Unix(),
	})
}
