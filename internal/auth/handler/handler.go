package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/auth/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	uc     auth.UseCase
	authn  func(http.Handler) http.Handler
	logger logger.ZapLogger
}

func NewAuthHandler(uc auth.UseCase, maker auth.Maker, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		authn:  auth.Middleware(maker, log),
		logger: log,
	}
}

func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register/", h.Register)
	r.Post("/login/", h.Login)
	r.Post("/token/refresh/", h.Refresh)
	r.Post("/forgot_password/", h.ForgotPassword)
	r.Post("/reset-password/{uidb64}/{token}/", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(h.authn)
		r.Post("/logout/", h.Logout)
		r.Get("/profile/", h.GetProfile)
		r.Patch("/profile/", h.UpdateProfile)
	})
}

type registerRequest struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=8,max=128"`
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
}

type profileResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toProfile(u *model.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	res, err := h.uc.Register(r.Context(), &dto.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	res, err := h.uc.Login(r.Context(), &dto.LoginInput{Username: req.Username, Password: req.Password})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	pair, err := h.uc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.Logout(r.Context(), req.Refresh); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out."})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.ForgotPassword(r.Context(), req.Email); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "Password reset link sent!"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	err := h.uc.ResetPassword(r.Context(), &dto.ResetPasswordInput{
		UIDB64:          chi.URLParam(r, "uidb64"),
		Token:           chi.URLParam(r, "token"),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.uc.GetProfile(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProfile(u))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	u, err := h.uc.UpdateProfile(r.Context(), &dto.UpdateProfileInput{
		UserID:    auth.UserID(r.Context()),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProfile(u))
}
