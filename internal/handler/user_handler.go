package handler

import (
	"net/http"

	"cinecomments/internal/models"
	"cinecomments/internal/service"

	"go.uber.org/zap"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(s *service.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{svc: s, log: log}
}

type loginResponse struct {
	Access string `json:"access"`
}

// @Summary Register
// @Description Creates a non-admin account
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.RegisterInput true "account"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if _, err := h.svc.Register(r.Context(), in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Successfully Registered"})
}

// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.LoginInput true "credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Access: token})
}

// @Summary Profile of the caller
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} errorResponse
// @Router /users/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	u, err := h.svc.GetProfile(r.Context(), p)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
