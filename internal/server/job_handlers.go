package server

import (
	"strings"

	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// jobFilter reads the listing filters from the query string.
func jobFilter(c *fiber.Ctx) (repository.JobFilter, error) {
	p := parsePagination(c)
	f := repository.JobFilter{
		Search:          strings.TrimSpace(c.Query("search")),
		Category:        strings.TrimSpace(c.Query("category")),
		JobType:         models.JobType(c.Query("jobType")),
		ExperienceLevel: models.ExperienceLevel(c.Query("experienceLevel")),
		Location:        strings.TrimSpace(c.Query("location")),
		Page:            p.Page,
		Limit:           p.Limit,
	}
	var err error
	if f.MinSalary, err = queryInt64(c, "minSalary"); err != nil {
		return f, err
	}
	if f.MaxSalary, err = queryInt64(c, "maxSalary"); err != nil {
		return f, err
	}
	return f, nil
}

// ListJobs handles GET /api/jobs
// @Summary List active jobs
// @Tags jobs
// @Produce json
// @Param search query string false "Full-text search"
// @Param category query string false "Category"
// @Param jobType query string false "full-time, part-time, contract or internship"
// @Param experienceLevel query string false "entry, mid, senior, manager or director"
// @Param location query string false "City or country"
// @Param minSalary query int false "Minimum salary"
// @Param maxSalary query int false "Maximum salary"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope{data=[]models.Job}
// @Router /jobs [get]
func (s *Server) ListJobs(c *fiber.Ctx) error {
	f, err := jobFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := s.jobService.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, page)
}

// GetJob handles GET /api/jobs/:id
// @Summary Job detail
// @Description Returns the job with company, poster and applications, and counts the view
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope{data=models.Job}
// @Failure 404 {object} models.Envelope
// @Router /jobs/{id} [get]
func (s *Server) GetJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	job, err := s.jobService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, job, "")
}

// CreateJob handles POST /api/jobs
// @Summary Post a job
// @Description Creates a company for the poster first when they have none
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body service.CreateJobInput true "Job"
// @Success 201 {object} models.Envelope{data=models.Job}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs [post]
func (s *Server) CreateJob(c *fiber.Ctx) error {
	var req service.CreateJobInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	job, err := s.jobService.Create(c.UserContext(), actor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, job, "Job created successfully")
}

// UpdateJob handles PUT /api/jobs/:id
// @Summary Update a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body service.UpdateJobInput true "Changes"
// @Success 200 {object} models.Envelope{data=models.Job}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs/{id} [put]
func (s *Server) UpdateJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateJobInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	job, err := s.jobService.Update(c.UserContext(), actor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, job, "Job updated successfully")
}

// DeleteJob handles DELETE /api/jobs/:id
// @Summary Delete a job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs/{id} [delete]
func (s *Server) DeleteJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.jobService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, nil, "Job deleted successfully")
}

// ApplyToJob handles POST /api/jobs/:id/apply
// @Summary Apply to a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body service.ApplyInput false "Cover letter"
// @Success 201 {object} models.Envelope{data=models.Application}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs/{id}/apply [post]
func (s *Server) ApplyToJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.ApplyInput
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	app, err := s.jobService.Apply(c.UserContext(), actor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, app, "Application submitted successfully")
}

// ToggleSaveJob handles POST /api/jobs/:id/save
// @Summary Save or unsave a job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope{data=object{saved=bool}}
// @Failure 404 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs/{id}/save [post]
func (s *Server) ToggleSaveJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	saved, err := s.jobService.ToggleSave(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	message := "Job removed from saved jobs"
	if saved {
		message = "Job saved successfully"
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"saved": saved}, message)
}

// ListSavedJobs handles GET /api/jobs/saved
// @Summary Saved jobs of the caller
// @Tags jobs
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Job}
// @Security BearerAuth
// @Router /jobs/saved [get]
func (s *Server) ListSavedJobs(c *fiber.Ctx) error {
	jobs, err := s.jobService.ListSaved(c.UserContext(), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return respondData(c, fiber.StatusOK, jobs, "")
}

// ListMyApplications handles GET /api/jobs/applications
// @Summary Applications of the caller
// @Tags jobs
// @Produce json
// @Success 200 {object} models.Envelope{data=[]models.Application}
// @Security BearerAuth
// @Router /jobs/applications [get]
func (s *Server) ListMyApplications(c *fiber.Ctx) error {
	apps, err := s.jobService.ListMyApplications(c.UserContext(), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return respondData(c, fiber.StatusOK, apps, "")
}

// ListJobApplications handles GET /api/jobs/:id/applications
// @Summary Applications received by a job
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope{data=[]models.Application}
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs/{id}/applications [get]
func (s *Server) ListJobApplications(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	apps, err := s.jobService.ListApplications(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return respondData(c, fiber.StatusOK, apps, "")
}

// UpdateApplicationStatus handles PUT /api/jobs/:id/applications/:applicationId/status
// @Summary Move an application through review
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param applicationId path int true "Application ID"
// @Param request body service.UpdateApplicationStatusInput true "New status"
// @Success 200 {object} models.Envelope{data=models.Application}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Security BearerAuth
// @Router /jobs/{id}/applications/{applicationId}/status [put]
func (s *Server) UpdateApplicationStatus(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	appID, err := parseID(c, "applicationId")
	if err != nil {
		return nil
	}
	var req service.UpdateApplicationStatusInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	app, err := s.jobService.UpdateApplicationStatus(c.UserContext(), actor(c), jobID, appID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, app, "Application status updated")
}
