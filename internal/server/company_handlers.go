package server

import (
	"strings"

	"jobboard/internal/repository"
	"jobboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

func companyFilter(c *fiber.Ctx) repository.CompanyFilter {
	p := parsePagination(c)
	return repository.CompanyFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Industry: strings.TrimSpace(c.Query("industry")),
		Page:     p.Page,
		Limit:    p.Limit,
	}
}

// ListCompanies handles GET /api/companies
// @Summary List companies
// @Tags companies
// @Produce json
// @Param search query string false "Name contains"
// @Param industry query string false "Industry"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope{data=[]models.Company}
// @Router /companies [get]
func (s *Server) ListCompanies(c *fiber.Ctx) error {
	page, err := s.companyService.List(c.UserContext(), companyFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, page)
}

// GetCompany handles GET /api/companies/:id
// @Summary Company detail
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} models.Envelope{data=models.Company}
// @Failure 404 {object} models.Envelope
// @Router /companies/{id} [get]
func (s *Server) GetCompany(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	company, err := s.companyService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, company, "")
}

// ListCompanyJobs handles GET /api/companies/:id/jobs
// @Summary Active jobs of a company
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope{data=[]models.Job}
// @Failure 404 {object} models.Envelope
// @Router /companies/{id}/jobs [get]
func (s *Server) ListCompanyJobs(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	page, err := s.companyService.ListJobs(c.UserContext(), id, p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, page)
}

// CreateCompany handles POST /api/companies
// @Summary Create a company
// @Description The caller becomes the owner and is promoted to employer
// @Tags companies
// @Accept json
// @Produce json
// @Param request body service.CreateCompanyInput true "Company"
// @Success 201 {object} models.Envelope{data=models.Company}
// @Failure 400 {object} models.Envelope
// @Security BearerAuth
// @Router /companies [post]
func (s *Server) CreateCompany(c *fiber.Ctx) error {
	var req service.CreateCompanyInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	company, err := s.companyService.Create(c.UserContext(), actor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, company, "Company created successfully")
}

// UpdateCompany handles PUT /api/companies/:id
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param request body service.UpdateCompanyInput true "Changes"
// @Success 200 {object} models.Envelope{data=models.Company}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /companies/{id} [put]
func (s *Server) UpdateCompany(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateCompanyInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	company, err := s.companyService.Update(c.UserContext(), actor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, company, "Company updated successfully")
}

// DeleteCompany handles DELETE /api/companies/:id
// @Summary Delete a company and its jobs
// @Tags companies
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /companies/{id} [delete]
func (s *Server) DeleteCompany(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.companyService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "Company deleted successfully")
}
