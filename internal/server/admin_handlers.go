package server

import (
	"strings"

	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Param search query string false "Email or name contains"
// @Param role query string false "jobseeker, employer or admin"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope{data=[]models.User}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.adminService.ListUsers(c.UserContext(), repository.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   models.Role(c.Query("role")),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, page)
}

// AdminUpdateUser handles PUT /api/admin/users/:id
// @Summary Update a user's role, profile or active flag
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body service.AdminUpdateUserInput true "Changes"
// @Success 200 {object} models.Envelope{data=models.User}
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.AdminUpdateUserInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	user, err := s.adminService.UpdateUser(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user, "User updated successfully")
}

// AdminSetUserRole handles PUT /api/admin/users/:id/role
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body service.SetRoleInput true "Role"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/users/{id}/role [put]
func (s *Server) AdminSetUserRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.SetRoleInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	user, err := s.adminService.SetRole(c.UserContext(), id, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, user, "User role updated successfully")
}

// AdminDeleteUser handles DELETE /api/admin/users/:id
// @Summary Delete a user and everything they own
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "User and all associated data deleted successfully")
}

// AdminListJobs handles GET /api/admin/jobs
// @Summary List all jobs, inactive included
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Job}
// @Security BearerAuth
// @Router /admin/jobs [get]
func (s *Server) AdminListJobs(c *fiber.Ctx) error {
	f, err := jobFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := s.adminService.ListJobs(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, page)
}

// AdminDeleteJob handles DELETE /api/admin/jobs/:id
// @Summary Delete any job
// @Tags admin
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/jobs/{id} [delete]
func (s *Server) AdminDeleteJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeleteJob(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "Job deleted successfully")
}

// AdminListCompanies handles GET /api/admin/companies
// @Summary List companies
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Company}
// @Security BearerAuth
// @Router /admin/companies [get]
func (s *Server) AdminListCompanies(c *fiber.Ctx) error {
	page, err := s.adminService.ListCompanies(c.UserContext(), companyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, page)
}

// AdminDeleteCompany handles DELETE /api/admin/companies/:id
// @Summary Delete any company with its jobs
// @Tags admin
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} models.Envelope
// @Security BearerAuth
// @Router /admin/companies/{id} [delete]
func (s *Server) AdminDeleteCompany(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeleteCompany(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "Company deleted successfully")
}

// AdminStatistics handles GET /api/admin/statistics
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope{data=service.Statistics}
// @Security BearerAuth
// @Router /admin/statistics [get]
func (s *Server) AdminStatistics(c *fiber.Ctx) error {
	stats, err := s.adminService.Statistics(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, stats, "")
}

// AdminStats handles GET /api/admin/stats
// @Summary Headline counts
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope{data=object{stats=service.StatsSummary}}
// @Security BearerAuth
// @Router /admin/stats [get]
func (s *Server) AdminStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"stats": stats}, "")
}

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
// @Summary Feature flags
// @Tags admin
// @Produce json
// @Success 200 {object} models.Envelope{data=service.FlagSnapshot}
// @Security BearerAuth
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return respondData(c, fiber.StatusOK, s.adminService.FeatureFlags(actor(c)), "")
}
