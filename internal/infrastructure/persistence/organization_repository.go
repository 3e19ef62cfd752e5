package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/infrastructure/persistence/models"
)

// GormOrganizationRepository implements OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Save persists a new organization
func (r *GormOrganizationRepository) Save(ctx context.Context, o *partner.Organization) error {
	var model models.OrganizationModel
	model.FromDomain(o)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing organization
func (r *GormOrganizationRepository) Update(ctx context.Context, o *partner.Organization) error {
	var model models.OrganizationModel
	model.FromDomain(o)
	result := r.db.WithContext(ctx).Model(&models.OrganizationModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"name":                   model.Name,
			"virtual_account_bank":   model.VirtualAccountBank,
			"virtual_account_number": model.VirtualAccountNumber,
			"settlement_cycle":       model.SettlementCycle,
			"contact_email":          model.ContactEmail,
			"active":                 model.Active,
			"updated_at":             model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByVirtualAccount resolves the organization that owns a virtual bank
// account. This is how an incoming deposit finds its organization.
func (r *GormOrganizationRepository) FindByVirtualAccount(ctx context.Context, bank, number string) (*partner.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).
		Where("virtual_account_bank = ? AND virtual_account_number = ?", bank, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByCycle finds active organizations on the given settlement cycle
func (r *GormOrganizationRepository) FindActiveByCycle(ctx context.Context, cycle partner.SettlementCycle) ([]*partner.Organization, error) {
	var rows []models.OrganizationModel
	if err := r.db.WithContext(ctx).
		Where("settlement_cycle = ? AND active = ?", cycle.String(), true).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*partner.Organization, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindAll finds organizations with filtering and pagination
func (r *GormOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Organization], error) {
	var result shared.Paginated[*partner.Organization]

	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.OrganizationModel{})
		for key, value := range filter.Filters {
			switch key {
			case "settlement_cycle":
				q = q.Where("settlement_cycle = ?", value)
			case "active":
				q = q.Where("active = ?", value)
			}
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return result, err
	}

	query := base()
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if clause := filter.OrderClause(); clause != "" {
		query = query.Order(clause)
	} else {
		query = query.Order("name ASC")
	}

	var rows []models.OrganizationModel
	if err := query.Find(&rows).Error; err != nil {
		return result, err
	}

	items := make([]*partner.Organization, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Ensure GormOrganizationRepository implements OrganizationRepository
var _ partner.OrganizationRepository = (*GormOrganizationRepository)(nil)
