package handler

import (
	"log"
	"net/http"

	"basetrack/internal/service"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterPublicRoutes mounts the routes reachable without a token.
func (h *AuthHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.GET("/bases", h.ListBases)
	}
}

// RegisterRoutes mounts the routes that require authentication.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/profile", h.Profile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.POST("/logout", h.Logout)
	}
}

// Signup registers a new account
// @Summary      Sign up
// @Description  Creates a new user account tied to a base and role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SignupRequest  true  "Signup Payload"
// @Success      201      {object}  response.Response{data=model.User}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Login authenticates a user
// @Summary      Log in
// @Description  Authenticates by username or email and returns a signed token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Payload"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, token))
}

// ListBases returns the active bases for signup forms
// @Summary      List bases
// @Description  Returns active bases; serves a default roster when the
// @Description  identity store is unreachable so signup stays available
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Base}
// @Router       /api/auth/bases [get]
func (h *AuthHandler) ListBases(c *gin.Context) {
	bases, err := h.authService.ListBases(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"bases": bases,
	}))
}

// Logout acknowledges the end of a session. Tokens are stateless, so the
// client discards its copy; the server only records who logged out.
// @Summary      Log out
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	log.Printf("user %s logged out", actor.Username)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"message": "Logged out successfully",
	}))
}

// Profile returns the caller's account
// @Summary      Get profile
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.User}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), actor.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateProfile updates the caller's account
// @Summary      Update profile
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateProfileRequest  true  "Profile Payload"
// @Success      200      {object}  response.Response{data=model.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), actor.ID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
