package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/delivery/http/dto"
	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/pkg/response"
	"careerpilot/internal/repository"
	"careerpilot/internal/usecase"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

// credentialsRequest is the shared body of register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	return h.authenticate(c, func(c fiber.Ctx, email, password string) (repository.User, string, string, error) {
		return h.uc.Register(c.Context(), usecase.RegisterInput{Email: email, Password: password})
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	return h.authenticate(c, func(c fiber.Ctx, email, password string) (repository.User, string, string, error) {
		return h.uc.Login(c.Context(), usecase.LoginInput{Email: email, Password: password})
	})
}

// authenticate runs the shared bind/issue/respond flow of register and
// login; only the usecase call differs.
func (h *AuthHandler) authenticate(c fiber.Ctx, fn func(c fiber.Ctx, email, password string) (repository.User, string, string, error)) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, access, refresh, err := fn(c, req.Email, req.Password)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	res := dto.AuthResponse{
		User:         dto.AuthUserResponse{ID: usr.ID, Email: usr.Email},
		AccessToken:  access,
		RefreshToken: refresh,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := bearerFromAuthorizationHeader(c.Get("Authorization"))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	access, refresh, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshTokenExpired):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
		case errors.Is(err, usecase.ErrUnauthorized):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	res := dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func bearerFromAuthorizationHeader(authHeader string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
