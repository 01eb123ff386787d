package repository

import (
	"context"
	"errors"

	"jobboard/internal/cache"
	"jobboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFilter narrows an admin user listing.
type UserFilter struct {
	Search string
	Role   models.Role
	Page   int
	Limit  int
}

// RoleCount is one row of a users-by-role aggregate.
type RoleCount struct {
	Role  models.Role `json:"role"`
	Count int64       `json:"count"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetSession(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f UserFilter) (*models.Page[models.User], error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) ([]RoleCount, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID loads the full row, password hash included.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetSession returns the cached user used to authenticate requests. The
// password hash is never cached, so the result must not be saved back.
func (r *userRepository) GetSession(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, "user", cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return notFoundOr(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeDuplicateEmail, "User already exists with this email")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateAdminStats(ctx)
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeDuplicateEmail, "User already exists with this email")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	cache.InvalidateAdminStats(ctx)
	return nil
}

// Delete removes the user together with the jobs they posted, the company they
// own (and its jobs), their applications and their saved entries.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	var companyIDs, unlinked []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		companyQuery := tx.Model(&models.Company{}).Where("created_by = ?", id)
		if user.Profile.CompanyID != nil {
			companyQuery = companyQuery.Or("id = ?", *user.Profile.CompanyID)
		}
		if err := companyQuery.Pluck("id", &companyIDs).Error; err != nil {
			return err
		}

		jobQuery := tx.Model(&models.Job{}).Where("posted_by = ?", id)
		if len(companyIDs) > 0 {
			jobQuery = jobQuery.Or("company_id IN ?", companyIDs)
		}
		var jobIDs []uint
		if err := jobQuery.Pluck("id", &jobIDs).Error; err != nil {
			return err
		}

		if err := deleteJobsTx(tx, jobIDs); err != nil {
			return err
		}
		if len(companyIDs) > 0 {
			if err := tx.Model(&models.User{}).Where("profile_company_id IN ? AND id <> ?", companyIDs, id).
				Pluck("id", &unlinked).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).Where("profile_company_id IN ?", companyIDs).
				Update("profile_company_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", companyIDs).Delete(&models.Company{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("applicant_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return notFoundOr(err, "User", id)
	}
	cache.InvalidateUser(ctx, id)
	for _, cid := range companyIDs {
		cache.InvalidateCompany(ctx, cid)
	}
	for _, uid := range unlinked {
		cache.InvalidateUser(ctx, uid)
	}
	cache.InvalidateAdminStats(ctx)
	return nil
}

func (r *userRepository) List(ctx context.Context, f UserFilter) (*models.Page[models.User], error) {
	page, limit, offset := paginate(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&models.User{})
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(email) LIKE ? OR LOWER(profile_first_name) LIKE ? OR LOWER(profile_last_name) LIKE ?)", p, p, p)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachCompanyNames(ctx, users); err != nil {
		return nil, err
	}

	return &models.Page[models.User]{Items: users, Meta: models.NewPageMeta(page, limit, total)}, nil
}

func (r *userRepository) attachCompanyNames(ctx context.Context, users []models.User) error {
	var ids []uint
	for _, u := range users {
		if u.Profile.CompanyID != nil {
			ids = append(ids, *u.Profile.CompanyID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var companies []models.Company
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&companies).Error; err != nil {
		return models.NewInternalError(err)
	}
	names := make(map[uint]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}
	for i := range users {
		if cid := users[i].Profile.CompanyID; cid != nil {
			users[i].CompanyName = names[*cid]
		}
	}
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *userRepository) CountByRole(ctx context.Context) ([]RoleCount, error) {
	var rows []RoleCount
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS count").Group("role").Order("role").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
