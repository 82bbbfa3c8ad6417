package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/api/metrics"
	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// resetRequestedMessage is returned whether or not the account exists.
const resetRequestedMessage = "If the account exists, a password reset email has been sent"

type AuthHandler struct {
	authService  ports.AuthService
	resetService ports.PasswordResetService
	log          zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, resetService ports.PasswordResetService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, resetService: resetService, log: log}
}

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, toTokenResponse(res, true))
}

// Login exchanges credentials for an access token. The username field accepts
// either a username or an e-mail address.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrForbiddenInactive):
			metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		default:
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toTokenResponse(res, false))
}

// RequestPasswordReset issues a reset token for the given e-mail. The response
// is identical whether or not the account exists.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetRequest  true  "Account e-mail"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.resetService.RequestReset(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		metrics.PasswordResetsTotal.WithLabelValues("request", "issued").Inc()
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.PasswordResetsTotal.WithLabelValues("request", "unknown_email").Inc()
	case errors.Is(err, domain.ErrResetThrottled):
		metrics.PasswordResetsTotal.WithLabelValues("request", "throttled").Inc()
	default:
		metrics.PasswordResetsTotal.WithLabelValues("request", "error").Inc()
		h.log.Error().Err(err).Msg("password reset request failed")
	}

	return c.JSON(http.StatusAccepted, messageResponse{Message: resetRequestedMessage})
}

// ConfirmPasswordReset sets a new password using a reset token.
//
// @Summary      Confirm a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      passwordResetConfirmRequest  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c echo.Context) error {
	var req passwordResetConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.resetService.ConfirmReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			metrics.PasswordResetsTotal.WithLabelValues("confirm", "invalid_token").Inc()
		} else {
			metrics.PasswordResetsTotal.WithLabelValues("confirm", "error").Inc()
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("confirm", "completed").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
