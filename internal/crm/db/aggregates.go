package db

import (
	"context"
	"fmt"

	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Aggregate filters run in two stages. The grouping stage produces one
// (owner_id, total) row per owner. The predicate stage LEFT JOINs that result
// onto the owner table and compares COALESCE(total, 0) against the bounds,
// so owners without related rows count as zero.

// AggregateCount is one row of a grouping stage.
type AggregateCount struct {
	OwnerID uuid.UUID
	Total   int64
}

// EmployeeCountsByCompany groups employees by their company.
func EmployeeCountsByCompany(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.Employee{}).
		Select("company_id AS owner_id, COUNT(*) AS total").
		Group("company_id")
}

// EmployeeCountsByProfession groups employees by their profession.
func EmployeeCountsByProfession(tx *gorm.DB) *gorm.DB {
	return tx.Model(&models.Employee{}).
		Select("profession_id AS owner_id, COUNT(*) AS total").
		Group("profession_id")
}

// PartnerCounts counts the partnerships each company takes part in, as the
// partner or as the inviter.
func PartnerCounts(tx *gorm.DB) *gorm.DB {
	return tx.Raw(`SELECT owner_id, COUNT(*) AS total FROM (
		SELECT company_id AS owner_id FROM partnerships
		UNION ALL
		SELECT company_inviter_id AS owner_id FROM partnerships
	) AS sides GROUP BY owner_id`)
}

// Counts runs a grouping stage on its own and returns its rows.
func (r *Repository) Counts(ctx context.Context, stage func(*gorm.DB) *gorm.DB) ([]AggregateCount, error) {
	var rows []AggregateCount
	if err := stage(r.db.WithContext(ctx)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate counts: %w", err)
	}
	return rows, nil
}

// joinCounts attaches a grouping stage under alias, keyed on ownerColumn.
func joinCounts(alias string, counts *gorm.DB, ownerColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins(fmt.Sprintf("LEFT JOIN (?) AS %s ON %s.owner_id = %s", alias, alias, ownerColumn), counts)
	}
}

// countColumn is the aggregated value of a joined grouping stage.
func countColumn(alias string) string {
	return fmt.Sprintf("COALESCE(%s.total, 0)", alias)
}

// countPredicate is the predicate stage over a joined grouping stage.
func countPredicate(alias string, r filters.IntRange) func(*gorm.DB) *gorm.DB {
	return intRange(countColumn(alias), r)
}
