// internal/domain/delivery/entity.go
package delivery

import "time"

// Zone is one of a small fixed set of shipping regions, each with its own
// flat delivery cost.
type Zone string

const (
	ZoneInsideDhaka  Zone = "INSIDE_DHAKA"
	ZoneOutsideDhaka Zone = "OUTSIDE_DHAKA"
)

// Default flat costs in poisha, used when seeding missing zone rows.
const (
	DefaultInsideDhakaCost  int64 = 6000  // 60 Tk
	DefaultOutsideDhakaCost int64 = 12000 // 120 Tk
)

// Zones lists every known delivery zone
func Zones() []Zone {
	return []Zone{ZoneInsideDhaka, ZoneOutsideDhaka}
}

// IsValid reports whether z is a known zone value
func (z Zone) IsValid() bool {
	return z == ZoneInsideDhaka || z == ZoneOutsideDhaka
}

// DeliveryCost holds the flat shipping cost for one zone. Exactly one row
// exists per zone value.
type DeliveryCost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Zone      Zone      `gorm:"uniqueIndex;not null;size:32" json:"zone"`
	Amount    int64     `gorm:"not null" json:"amount"` // In poisha
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for DeliveryCost
func (DeliveryCost) TableName() string { return "delivery_costs" }
