// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
)

type handlers struct {
	service AuthService
	cookies *Cookies
	logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

type registerRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6,max=255"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=6,max=255,eqfield=Password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type resetPasswordRequest struct {
	Password         string `json:"password" binding:"required,min=6,max=255"`
	VerificationCode string `json:"verificationCode" binding:"required,min=1,max=24"`
}

type verifyEmailURI struct {
	Code string `uri:"code" binding:"required,min=1,max=24"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	User auth.UserView `json:"user"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindError(c, err)
		return
	}

	result, err := h.service.CreateAccount(c.Request.Context(), auth.CreateAccountParams{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	h.cookies.SetAuth(c.Writer, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusCreated, userResponse{User: result.User})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindError(c, err)
		return
	}

	result, err := h.service.LoginUser(c.Request.Context(), auth.LoginParams{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	h.cookies.SetAuth(c.Writer, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, messageResponse{Message: "Login successful"})
}

// refresh clears both cookies on any failure so a client holding a dead
// session is logged out instead of retrying forever.
func (h *handlers) refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookie)
	if err != nil || refreshToken == "" {
		h.cookies.Clear(c.Writer)
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Missing refresh token"})
		return
	}

	result, err := h.service.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.cookies.Clear(c.Writer)
		renderError(c, h.logger, err)
		return
	}

	if result.Rotated() {
		h.cookies.SetAuth(c.Writer, result.AccessToken, result.RefreshToken)
	} else {
		h.cookies.SetAccess(c.Writer, result.AccessToken)
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Access token refreshed"})
}

func (h *handlers) logout(c *gin.Context) {
	accessToken, _ := c.Cookie(AccessCookie) //nolint:errcheck // missing cookie still logs out
	h.service.LogoutUser(c.Request.Context(), accessToken)
	h.cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (h *handlers) verifyEmail(c *gin.Context) {
	var uri verifyEmailURI
	if err := c.ShouldBindUri(&uri); err != nil {
		renderBindError(c, err)
		return
	}

	if _, err := h.service.VerifyEmail(c.Request.Context(), uri.Code); err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Email was successfully verified"})
}

func (h *handlers) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindError(c, err)
		return
	}

	if err := h.service.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

func (h *handlers) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindError(c, err)
		return
	}

	if _, err := h.service.ResetPassword(c.Request.Context(), auth.ResetPasswordParams{
		Code:     req.VerificationCode,
		Password: req.Password,
	}); err != nil {
		renderError(c, h.logger, err)
		return
	}

	h.cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, messageResponse{Message: "Password was reset successfully"})
}

func (h *handlers) currentUser(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		renderUnauthorized(c, "Not authorized")
		return
	}

	view, err := h.service.GetUser(c.Request.Context(), principal.UserID)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
