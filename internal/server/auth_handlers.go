package server

import (
	"jobboard/internal/auth"
	"jobboard/internal/middleware"
	"jobboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create a job seeker or employer account and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 201 {object} models.Envelope{data=service.AuthResult}
// @Failure 400 {object} models.Envelope
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, res, "User registered successfully")
}

// Login handles POST /api/auth/login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} models.Envelope{data=service.AuthResult}
// @Failure 401 {object} models.Envelope
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, res, "Login successful")
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description Revoke the current session token
// @Tags auth
// @Produce json
// @Success 200 {object} models.Envelope
// @Security BearerAuth
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals(middleware.LocalClaims).(*auth.Claims)
	if err := s.authService.Logout(c.UserContext(), claims); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "Logged out successfully")
}

// GetProfile handles GET /api/auth/profile
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} models.Envelope{data=models.User}
// @Security BearerAuth
// @Router /auth/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.authService.GetProfile(c.UserContext(), middleware.UserIDFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user, "")
}

// UpdateProfile handles PUT /api/auth/profile
// @Summary Update profile
// @Description Only profile, skills, experience, location and phone may be changed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.UpdateProfileInput true "Profile update"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /auth/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	req, err := service.DecodeProfileUpdate(c.Body())
	if err != nil {
		return respondError(c, err)
	}
	user, err := s.authService.UpdateProfile(c.UserContext(), middleware.UserIDFrom(c), *req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user, "Profile updated successfully")
}

// RequestPasswordReset handles POST /api/auth/request-password-reset
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "Account email"
// @Success 200 {object} models.Envelope{data=service.ResetRequest}
// @Failure 404 {object} models.Envelope
// @Router /auth/request-password-reset [post]
func (s *Server) RequestPasswordReset(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	res, err := s.authService.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, res, "Password reset token generated")
}

// ResetPassword handles POST /api/auth/reset-password/:token
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body object{password=string} true "New password"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Router /auth/reset-password/{token} [post]
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := s.authService.ResetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "Password reset successful")
}
