// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package httpapi exposes the auth engine over HTTP. Tokens travel only in
// HttpOnly cookies.
package httpapi

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
)

// AuthService is the part of *auth.Service the handlers call.
type AuthService interface {
	CreateAccount(ctx context.Context, p auth.CreateAccountParams) (*auth.AuthResult, error)
	LoginUser(ctx context.Context, p auth.LoginParams) (*auth.AuthResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.RefreshResult, error)
	LogoutUser(ctx context.Context, accessToken string)
	VerifyEmail(ctx context.Context, code string) (*auth.UserView, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, p auth.ResetPasswordParams) (*auth.UserView, error)
	Authenticate(ctx context.Context, accessToken string) (*auth.Principal, error)
	GetUser(ctx context.Context, id ulid.ULID) (*auth.UserView, error)
}

var _ AuthService = (*auth.Service)(nil)

// RequestMetrics records finished requests.
type RequestMetrics interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// Options configures the router.
type Options struct {
	Service AuthService
	Cookies *Cookies
	// AppOrigin is the only origin allowed to make credentialed requests.
	AppOrigin string
	Logger    *slog.Logger
	Metrics   RequestMetrics
}

var registerTagName sync.Once

// useJSONFieldNames makes validation errors report json names, so the
// errors list matches the request body.
func useJSONFieldNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "uri"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

// NewRouter builds the gin engine with every auth route under /auth.
func NewRouter(opts Options) *gin.Engine {
	useJSONFieldNames()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cookies := opts.Cookies
	if cookies == nil {
		cookies = NewCookies(true, "")
	}
	h := &handlers{service: opts.Service, cookies: cookies, logger: logger}

	r := gin.New()
	r.Use(recovery(logger), requestLog(logger))
	if opts.Metrics != nil {
		r.Use(requestMetrics(opts.Metrics))
	}
	if opts.AppOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{opts.AppOrigin},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", h.health)

	a := r.Group("/auth")
	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.GET("/refresh", h.refresh)
	a.GET("/logout", h.logout)
	a.GET("/email/verify/:code", h.verifyEmail)
	a.POST("/password/forgot", h.forgotPassword)
	a.POST("/password/reset", h.resetPassword)

	protected := r.Group("/", requireAuth(opts.Service, logger))
	protected.GET("/user", h.currentUser)

	return r
}
