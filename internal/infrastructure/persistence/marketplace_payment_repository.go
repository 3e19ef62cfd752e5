package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/givebridge/backend/internal/domain/settlement"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/infrastructure/persistence/models"
)

// GormMarketplacePaymentRepository implements MarketplacePaymentRepository using GORM
type GormMarketplacePaymentRepository struct {
	db *gorm.DB
}

// NewGormMarketplacePaymentRepository creates a new GormMarketplacePaymentRepository
func NewGormMarketplacePaymentRepository(db *gorm.DB) *GormMarketplacePaymentRepository {
	return &GormMarketplacePaymentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormMarketplacePaymentRepository) WithTx(tx any) settlement.MarketplacePaymentRepository {
	return &GormMarketplacePaymentRepository{db: gormTx(tx, r.db)}
}

// Save records a payable for a marketplace order. One payable per order; a
// duplicate surfaces as ErrAlreadyExists through the order_id unique index.
func (r *GormMarketplacePaymentRepository) Save(ctx context.Context, p *settlement.MarketplacePayment) error {
	var model models.MarketplacePaymentModel
	model.FromDomain(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing payment
func (r *GormMarketplacePaymentRepository) Update(ctx context.Context, p *settlement.MarketplacePayment) error {
	var model models.MarketplacePaymentModel
	model.FromDomain(p)
	result := r.db.WithContext(ctx).Model(&models.MarketplacePaymentModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":            model.Status,
			"completed_date":    model.CompletedDate,
			"payment_reference": model.PaymentReference,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByOrderID finds the payment owed for a marketplace order
func (r *GormMarketplacePaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*settlement.MarketplacePayment, error) {
	var model models.MarketplacePaymentModel
	if err := r.db.WithContext(ctx).
		First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds payments in the given status with pagination
func (r *GormMarketplacePaymentRepository) FindByStatus(ctx context.Context, status settlement.PaymentStatus, filter shared.Filter) (shared.Paginated[*settlement.MarketplacePayment], error) {
	var result shared.Paginated[*settlement.MarketplacePayment]

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.MarketplacePaymentModel{}).
			Where("status = ?", status.String())
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
		query = query.Order("scheduled_date ASC")
	}

	var rows []models.MarketplacePaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return result, err
	}

	items := make([]*settlement.MarketplacePayment, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Ensure GormMarketplacePaymentRepository implements MarketplacePaymentRepository
var _ settlement.MarketplacePaymentRepository = (*GormMarketplacePaymentRepository)(nil)
