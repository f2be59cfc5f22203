package handler

import (
	"net/http"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login del panel de administración
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginAdminRequest true "Credenciales"
// @Success 200 {object} apierror.Envelope
// @Failure 401 {object} apierror.Envelope
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginAdminRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
