package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/dto"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a company and its first admin in one shot.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), services.SignupInput{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondCreated(c, dto.AuthResponse{Token: token, User: dto.ToUserDTO(*user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body"))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.AuthResponse{Token: token, User: dto.ToUserDTO(*user)})
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), p.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	respondOK(c, dto.ToUserDTO(*user))
}
