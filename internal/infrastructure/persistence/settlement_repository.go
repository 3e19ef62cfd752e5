package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/infrastructure/persistence/models"
)

// GormSettlementRepository implements SettlementRepository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormSettlementRepository) WithTx(tx any) settlement.SettlementRepository {
	return &GormSettlementRepository{db: gormTx(tx, r.db)}
}

// Save persists a settlement batch. The unique index on organization and
// period turns a second batch for the same window into ErrAlreadyExists.
func (r *GormSettlementRepository) Save(ctx context.Context, s *settlement.Settlement) error {
	var model models.SettlementModel
	model.FromDomain(s)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSettlementRepository) SaveWithLock(ctx context.Context, s *settlement.Settlement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.SettlementModel{}).
			Where("id = ?", s.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != s.Version {
			return shared.ErrConcurrencyConflict
		}

		s.Version++
		s.UpdatedAt = time.Now()

		result := tx.Model(&models.SettlementModel{}).
			Where("id = ? AND version = ?", s.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":            s.Status.String(),
				"completed_date":    s.CompletedDate,
				"payment_reference": s.PaymentReference,
				"version":           s.Version,
				"updated_at":        s.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// FindByID finds a settlement by its ID
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a settlement by ID holding a row lock, so two
// completion attempts for the same batch serialize instead of racing.
func (r *GormSettlementRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrganizationAndPeriod finds the settlement for an organization and period
func (r *GormSettlementRepository) FindByOrganizationAndPeriod(ctx context.Context, organizationID uuid.UUID, period string) (*settlement.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND period = ?", organizationID, period).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds settlements with filtering and pagination
func (r *GormSettlementRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*settlement.Settlement], error) {
	var result shared.Paginated[*settlement.Settlement]

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.SettlementModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return result, err
	}

	var rows []models.SettlementModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SettlementModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return result, err
	}

	items := make([]*settlement.Settlement, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// applyFilter applies filter options to the query
func (r *GormSettlementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if clause := filter.OrderClause(); clause != "" {
		query = query.Order(clause)
	} else {
		query = query.Order("scheduled_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSettlementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "organization_id":
			query = query.Where("organization_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "period":
			query = query.Where("period = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormSettlementRepository implements SettlementRepository
var _ settlement.SettlementRepository = (*GormSettlementRepository)(nil)
