package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/infrastructure/persistence/models"
)

// GormUnmatchedDepositRepository implements UnmatchedDepositRepository using GORM
type GormUnmatchedDepositRepository struct {
	db *gorm.DB
}

// NewGormUnmatchedDepositRepository creates a new GormUnmatchedDepositRepository
func NewGormUnmatchedDepositRepository(db *gorm.DB) *GormUnmatchedDepositRepository {
	return &GormUnmatchedDepositRepository{db: db}
}

// Save records an unmatched deposit. The transaction ID is unique, so a
// redelivered deposit event cannot create a second row.
func (r *GormUnmatchedDepositRepository) Save(ctx context.Context, u *donation.UnmatchedDeposit) error {
	var model models.UnmatchedDepositModel
	model.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByTransactionID finds an unmatched deposit by its bank transaction ID
func (r *GormUnmatchedDepositRepository) FindByTransactionID(ctx context.Context, transactionID string) (*donation.UnmatchedDeposit, error) {
	var model models.UnmatchedDepositModel
	if err := r.db.WithContext(ctx).
		First(&model, "transaction_id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindUnresolved finds deposits still awaiting manual review
func (r *GormUnmatchedDepositRepository) FindUnresolved(ctx context.Context, filter shared.Filter) (shared.Paginated[*donation.UnmatchedDeposit], error) {
	var result shared.Paginated[*donation.UnmatchedDeposit]

	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.UnmatchedDepositModel{}).
			Where("resolved = ?", false)
		if orgID, ok := filter.Filters["organization_id"]; ok {
			q = q.Where("organization_id = ?", orgID)
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
		query = query.Order("occurred_at DESC")
	}

	var rows []models.UnmatchedDepositModel
	if err := query.Find(&rows).Error; err != nil {
		return result, err
	}

	items := make([]*donation.UnmatchedDeposit, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update updates an unmatched deposit (typically marking it resolved)
func (r *GormUnmatchedDepositRepository) Update(ctx context.Context, u *donation.UnmatchedDeposit) error {
	var model models.UnmatchedDepositModel
	model.FromDomain(u)
	result := r.db.WithContext(ctx).Model(&models.UnmatchedDepositModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"reason":      model.Reason,
			"resolved":    model.Resolved,
			"resolved_at": model.ResolvedAt,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUnmatchedDepositRepository implements UnmatchedDepositRepository
var _ donation.UnmatchedDepositRepository = (*GormUnmatchedDepositRepository)(nil)
