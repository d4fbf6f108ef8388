// Package http provides HTTP handlers for field encryption and decryption.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/fieldcrypt/internal/crypto/domain"
	"github.com/allisson/fieldcrypt/internal/crypto/http/dto"
	cryptoUseCase "github.com/allisson/fieldcrypt/internal/crypto/usecase"
	apperrors "github.com/allisson/fieldcrypt/internal/errors"
	"github.com/allisson/fieldcrypt/internal/httputil"
	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// errCiphertextRejected replaces every decrypt failure in responses, so callers
// cannot tell a padding failure from a bad UTF-8 result.
var errCiphertextRejected = fmt.Errorf("%w: ciphertext could not be decrypted", apperrors.ErrInvalidInput)

// CipherHandler serves the encrypt and decrypt endpoints.
type CipherHandler struct {
	cipherUseCase cryptoUseCase.CipherUseCase
	logger        *slog.Logger
}

// NewCipherHandler creates a new cipher handler.
func NewCipherHandler(cipherUseCase cryptoUseCase.CipherUseCase, logger *slog.Logger) *CipherHandler {
	return &CipherHandler{
		cipherUseCase: cipherUseCase,
		logger:        logger,
	}
}

// EncryptHandler encrypts a single field value.
// POST /v1/encrypt - Returns 200 OK with the base64 envelope.
func (h *CipherHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ciphertext, err := h.cipherUseCase.Encrypt(c.Request.Context(), *req.Plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: ciphertext})
}

// DecryptHandler decrypts a base64 envelope.
// POST /v1/decrypt - Returns 200 OK with the plaintext.
func (h *CipherHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.cipherUseCase.Decrypt(c.Request.Context(), req.Ciphertext)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrDecryptionFailed) || errors.Is(err, cryptoDomain.ErrMalformedInput) {
			h.logger.Warn("decrypt rejected", slog.Any("error", err))
			httputil.HandleErrorGin(c, errCiphertextRejected, nil)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: plaintext})
}
