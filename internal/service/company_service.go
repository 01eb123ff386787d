package service

import (
	"context"
	"strings"

	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/validation"
)

type CompanyService struct {
	companies repository.CompanyRepository
	jobs      repository.JobRepository
}

func NewCompanyService(companies repository.CompanyRepository, jobs repository.JobRepository) *CompanyService {
	return &CompanyService{companies: companies, jobs: jobs}
}

type CreateCompanyInput struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description" validate:"required,max=5000"`
	Industry    string             `json:"industry" validate:"required,max=100"`
	Location    models.Location    `json:"location"`
	Size        models.CompanySize `json:"size" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Website     string             `json:"website" validate:"omitempty,url,max=500"`
	Logo        string             `json:"logo" validate:"omitempty,max=500"`
}

// UpdateCompanyInput is a partial update; nil fields are left unchanged.
type UpdateCompanyInput struct {
	Name        *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string             `json:"description" validate:"omitempty,min=1,max=5000"`
	Industry    *string             `json:"industry" validate:"omitempty,min=1,max=100"`
	Location    *models.Location    `json:"location"`
	Size        *models.CompanySize `json:"size" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Website     *string             `json:"website" validate:"omitempty,max=500"`
	Logo        *string             `json:"logo" validate:"omitempty,max=500"`
}

func (s *CompanyService) List(ctx context.Context, f repository.CompanyFilter) (*models.Page[models.Company], error) {
	return s.companies.List(ctx, f)
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// ListJobs returns the active jobs of one company. An unknown or deleted
// company yields an empty page.
func (s *CompanyService) ListJobs(ctx context.Context, companyID uint, page, limit int) (*models.Page[models.Job], error) {
	return s.jobs.List(ctx, repository.JobFilter{CompanyID: companyID, Page: page, Limit: limit})
}

// Create registers a company owned by the actor, who becomes an employer.
func (s *CompanyService) Create(ctx context.Context, actor Actor, in CreateCompanyInput) (*models.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Industry = strings.TrimSpace(in.Industry)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	size := in.Size
	if size == "" {
		size = models.CompanySize1To10
	}
	company := &models.Company{
		Name:        in.Name,
		Description: in.Description,
		Industry:    in.Industry,
		Location:    in.Location,
		Size:        size,
		Website:     strings.TrimSpace(in.Website),
		Logo:        strings.TrimSpace(in.Logo),
		CreatedByID: actor.ID,
	}
	if err := s.companies.CreateForOwner(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.companies.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return models.NewConflictError(models.CodeDuplicateName, "Company with this name already exists")
	}
	return nil
}

func (s *CompanyService) ownedCompany(ctx context.Context, actor Actor, id uint, verb string) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, models.NewForbiddenError("Not authorized to " + verb + " this company")
	}
	return company, nil
}

func (s *CompanyService) Update(ctx context.Context, actor Actor, id uint, in UpdateCompanyInput) (*models.Company, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	company, err := s.ownedCompany(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("name is required")
		}
		if err := s.ensureNameFree(ctx, name, company.ID); err != nil {
			return nil, err
		}
		company.Name = name
	}
	setString(&company.Description, in.Description)
	setString(&company.Industry, in.Industry)
	if company.Description == "" || company.Industry == "" {
		return nil, models.NewValidationError("description and industry cannot be empty")
	}
	setString(&company.Website, in.Website)
	setString(&company.Logo, in.Logo)
	if in.Location != nil {
		company.Location = *in.Location
	}
	if in.Size != nil {
		company.Size = *in.Size
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes the company and all of its jobs.
func (s *CompanyService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.ownedCompany(ctx, actor, id, "delete"); err != nil {
		return err
	}
	return s.companies.Delete(ctx, id)
}
