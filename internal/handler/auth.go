package handler

import (
	"net/http"

	"adetta/internal/dto"
	"adetta/internal/middleware"
	"adetta/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Unlock a session with the shared PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "PIN"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Session godoc
// @Summary      Report whether the caller's session passed the gate
// @Tags         auth
// @Produce      json
// @Success      200  {object} dto.SessionResponse
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	s := middleware.GetSession(c)
	c.JSON(http.StatusOK, dto.SessionResponse{
		Authenticated: s != nil && s.Authenticated,
		GateEnabled:   h.svc.GateEnabled(),
	})
}
