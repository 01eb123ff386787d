package repository

import (
	"context"
	"errors"

	"jobboard/internal/cache"
	"jobboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyFilter narrows a company listing.
type CompanyFilter struct {
	Search   string
	Industry string
	Page     int
	Limit    int
}

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Company, error)
	GetByName(ctx context.Context, name string) (*models.Company, error)
	GetByOwner(ctx context.Context, userID uint) (*models.Company, error)
	CreateForOwner(ctx context.Context, company *models.Company) error
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f CompanyFilter) (*models.Page[models.Company], error)
	Count(ctx context.Context) (int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository returns a new CompanyRepository implementation.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// GetByID returns the company with its creator summary and active job count.
func (r *companyRepository) GetByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	err := cache.Aside(ctx, "company", cache.CompanyKey(id), &company, cache.CompanyTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("CreatedBy", userSummary).First(&company, id).Error; err != nil {
			return notFoundOr(err, "Company", id)
		}
		counts, err := r.activeJobCounts(ctx, []uint{company.ID})
		if err != nil {
			return err
		}
		company.JobCount = counts[company.ID]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByName matches case-insensitively. Returns nil, nil when absent.
func (r *companyRepository) GetByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &company, nil
}

// GetByOwner returns the first company created by userID, or nil, nil.
func (r *companyRepository) GetByOwner(ctx context.Context, userID uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("created_by = ?", userID).Order("id ASC").First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &company, nil
}

// CreateForOwner inserts the company and, in the same transaction, links it
// to its creator's profile and promotes the creator to employer. Admins keep
// their role.
func (r *companyRepository) CreateForOwner(ctx context.Context, company *models.Company) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createCompanyTx(tx, company)
	})
	if err != nil {
		return companyWriteError(err)
	}
	cache.InvalidateUser(ctx, company.CreatedByID)
	cache.InvalidateAdminStats(ctx)
	return nil
}

func createCompanyTx(tx *gorm.DB, company *models.Company) error {
	if err := tx.Omit(clause.Associations).Create(company).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", company.CreatedByID).Updates(map[string]any{
		"profile_company_id": company.ID,
		"role":               gorm.Expr("CASE WHEN role = ? THEN role ELSE ? END", models.RoleAdmin, models.RoleEmployer),
	}).Error
}

func companyWriteError(err error) error {
	if isUniqueConstraintError(err) {
		return models.NewConflictError(models.CodeDuplicateName, "Company with this name already exists")
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(company).Error; err != nil {
		return companyWriteError(err)
	}
	cache.InvalidateCompany(ctx, company.ID)
	return nil
}

// Delete removes the company and all of its jobs, and unlinks it from profiles.
func (r *companyRepository) Delete(ctx context.Context, id uint) error {
	var unlinked []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.Select("id").First(&company, id).Error; err != nil {
			return err
		}

		var jobIDs []uint
		if err := tx.Model(&models.Job{}).Where("company_id = ?", id).Pluck("id", &jobIDs).Error; err != nil {
			return err
		}
		if err := deleteJobsTx(tx, jobIDs); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("profile_company_id = ?", id).Pluck("id", &unlinked).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("profile_company_id = ?", id).
			Update("profile_company_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Company{}, id).Error
	})
	if err != nil {
		return notFoundOr(err, "Company", id)
	}
	cache.InvalidateCompany(ctx, id)
	for _, uid := range unlinked {
		cache.InvalidateUser(ctx, uid)
	}
	cache.InvalidateAdminStats(ctx)
	return nil
}

func (r *companyRepository) List(ctx context.Context, f CompanyFilter) (*models.Page[models.Company], error) {
	page, limit, offset := paginate(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&models.Company{})
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(f.Search))
	}
	if f.Industry != "" {
		q = q.Where("industry = ?", f.Industry)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var companies []models.Company
	if err := q.Preload("CreatedBy", userSummary).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&companies).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	ids := make([]uint, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	counts, err := r.activeJobCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range companies {
		companies[i].JobCount = counts[companies[i].ID]
	}

	return &models.Page[models.Company]{Items: companies, Meta: models.NewPageMeta(page, limit, total)}, nil
}

func (r *companyRepository) activeJobCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		CompanyID uint
		Count     int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("company_id, COUNT(*) AS count").
		Where("company_id IN ? AND is_active = ?", ids, true).
		Group("company_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		counts[row.CompanyID] = row.Count
	}
	return counts, nil
}

func (r *companyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
