package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/infrastructure/persistence/models"
)

// GormDonationRepository implements DonationRepository using GORM
type GormDonationRepository struct {
	db *gorm.DB
}

// NewGormDonationRepository creates a new GormDonationRepository
func NewGormDonationRepository(db *gorm.DB) *GormDonationRepository {
	return &GormDonationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormDonationRepository) WithTx(tx any) donation.DonationRepository {
	return &GormDonationRepository{db: gormTx(tx, r.db)}
}

// Save creates or updates a donation
func (r *GormDonationRepository) Save(ctx context.Context, d *donation.Donation) error {
	var model models.DonationModel
	model.FromDomain(d)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDonationRepository) SaveWithLock(ctx context.Context, d *donation.Donation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.DonationModel{}).
			Where("id = ?", d.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != d.Version {
			return shared.ErrConcurrencyConflict
		}

		d.Version++
		d.UpdatedAt = time.Now()

		result := tx.Model(&models.DonationModel{}).
			Where("id = ? AND version = ?", d.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":            d.Status.String(),
				"payment_reference": d.PaymentReference,
				"message":           d.Message,
				"settlement_id":     d.SettlementID,
				"confirmed_at":      d.ConfirmedAt,
				"version":           d.Version,
				"updated_at":        d.UpdatedAt,
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

// FindByID finds a donation by its ID
func (r *GormDonationRepository) FindByID(ctx context.Context, id uuid.UUID) (*donation.Donation, error) {
	var model models.DonationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds donations with filtering and pagination
func (r *GormDonationRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*donation.Donation], error) {
	var result shared.Paginated[*donation.Donation]

	var total int64
	countQuery := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.DonationModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return result, err
	}

	var rows []models.DonationModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DonationModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return result, err
	}

	items := make([]*donation.Donation, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// FindPendingByOrganizationAndAmount finds unconfirmed donations for an
// organization matching the given deposit amount, oldest first.
func (r *GormDonationRepository) FindPendingByOrganizationAndAmount(ctx context.Context, organizationID uuid.UUID, amount decimal.Decimal) ([]*donation.Donation, error) {
	var rows []models.DonationModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND amount = ? AND status = ?",
			organizationID, amount, donation.StatusPending.String()).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*donation.Donation, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// ConfirmPayment persists a payment confirmation with a status guard, so two
// deposits racing for the same donation can never both claim it.
func (r *GormDonationRepository) ConfirmPayment(ctx context.Context, d *donation.Donation) error {
	result := r.db.WithContext(ctx).Model(&models.DonationModel{}).
		Where("id = ? AND status = ?", d.ID, donation.StatusPending.String()).
		Updates(map[string]interface{}{
			"status":            donation.StatusPaymentConfirmed.String(),
			"payment_reference": d.PaymentReference,
			"confirmed_at":      d.ConfirmedAt,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ClaimForSettlement atomically attaches donations to a settlement batch.
// Rows already claimed by another batch are left alone; the caller compares
// the returned count against the expected membership.
func (r *GormDonationRepository) ClaimForSettlement(ctx context.Context, settlementID uuid.UUID, donationIDs []uuid.UUID) (int64, error) {
	if len(donationIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&models.DonationModel{}).
		Where("id IN ? AND status IN ? AND settlement_id IS NULL",
			donationIDs,
			[]string{donation.StatusDelivered.String(), donation.StatusSettlementPending.String()}).
		Updates(map[string]interface{}{
			"status":        donation.StatusSettlementPending.String(),
			"settlement_id": settlementID,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CompleteBySettlement marks every donation in a settlement batch as settled
func (r *GormDonationRepository) CompleteBySettlement(ctx context.Context, settlementID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.DonationModel{}).
		Where("settlement_id = ? AND status = ?",
			settlementID, donation.StatusSettlementPending.String()).
		Updates(map[string]interface{}{
			"status":     donation.StatusSettlementCompleted.String(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindSettleableByOrganization finds unclaimed donations eligible for a
// settlement batch, locking them for the duration of the batch transaction.
// DELIVERED rows come from the shipping tracker; SETTLEMENT_PENDING rows with
// no settlement come from the explicit transition API.
func (r *GormDonationRepository) FindSettleableByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*donation.Donation, error) {
	var rows []models.DonationModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND status IN ? AND settlement_id IS NULL",
			organizationID,
			[]string{donation.StatusDelivered.String(), donation.StatusSettlementPending.String()}).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*donation.Donation, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindBySettlementID finds all donations attached to a settlement batch
func (r *GormDonationRepository) FindBySettlementID(ctx context.Context, settlementID uuid.UUID) ([]*donation.Donation, error) {
	var rows []models.DonationModel
	if err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*donation.Donation, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// applyFilter applies filter options to the query
func (r *GormDonationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if clause := filter.OrderClause(); clause != "" {
		query = query.Order(clause)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDonationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "donor_id":
			query = query.Where("donor_id = ?", value)
		case "organization_id":
			query = query.Where("organization_id = ?", value)
		case "beneficiary_item_id":
			query = query.Where("beneficiary_item_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("amount >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("amount <= ?", d)
			}
		}
	}

	return query
}

// Ensure GormDonationRepository implements DonationRepository
var _ donation.DonationRepository = (*GormDonationRepository)(nil)
