// internal/domain/delivery/service.go
package delivery

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors returned by the delivery service.
var (
	ErrUnknownZone       = errors.New("unknown delivery zone")
	ErrCostNotConfigured = errors.New("delivery cost not configured for zone")
)

// Service resolves flat delivery costs per zone
type Service struct {
	db *gorm.DB
}

// NewService creates a new delivery service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// UpdateCostRequest represents an admin cost change for one zone
type UpdateCostRequest struct {
	Amount int64 `json:"amount" binding:"required,min=0"`
}

// CostFor returns the flat cost for a zone. A missing row is a
// configuration error surfaced to the caller, never silently defaulted.
func (s *Service) CostFor(zone Zone) (int64, error) {
	if !zone.IsValid() {
		return 0, ErrUnknownZone
	}

	var cost DeliveryCost
	err := s.db.Where("zone = ?", zone).First(&cost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrCostNotConfigured, zone)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve delivery cost: %w", err)
	}

	return cost.Amount, nil
}

// GetCosts returns the configured cost rows for all zones
func (s *Service) GetCosts() ([]DeliveryCost, error) {
	var costs []DeliveryCost
	if err := s.db.Order("zone ASC").Find(&costs).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve delivery costs: %w", err)
	}
	return costs, nil
}

// EnsureDefaults seeds a cost row for every zone that is missing one.
// Idempotent: existing rows are left untouched, so repeated calls leave
// exactly one row per zone with unchanged amounts.
func (s *Service) EnsureDefaults() error {
	defaults := map[Zone]int64{
		ZoneInsideDhaka:  DefaultInsideDhakaCost,
		ZoneOutsideDhaka: DefaultOutsideDhakaCost,
	}

	for _, zone := range Zones() {
		var existing DeliveryCost
		err := s.db.Where("zone = ?", zone).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check delivery cost for %s: %w", zone, err)
		}

		cost := DeliveryCost{Zone: zone, Amount: defaults[zone]}
		if err := s.db.Create(&cost).Error; err != nil {
			return fmt.Errorf("failed to seed delivery cost for %s: %w", zone, err)
		}
	}

	return nil
}

// UpdateCost changes the flat cost for a zone
func (s *Service) UpdateCost(zone Zone, req *UpdateCostRequest) (*DeliveryCost, error) {
	if !zone.IsValid() {
		return nil, ErrUnknownZone
	}

	var cost DeliveryCost
	err := s.db.Where("zone = ?", zone).First(&cost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCostNotConfigured, zone)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve delivery cost: %w", err)
	}

	if err := s.db.Model(&cost).Update("amount", req.Amount).Error; err != nil {
		return nil, fmt.Errorf("failed to update delivery cost: %w", err)
	}

	return &cost, nil
}
