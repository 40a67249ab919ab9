package models

import (
	"fmt"

	"github.com/cotisations/backend/internal/types"
)

// Neighbor is a residential unit of the building.
type Neighbor struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Floor     int        `json:"floor" gorm:"uniqueIndex:neighbor_floor_unit" validate:"gte=0"`
	Unit      string     `json:"unit" gorm:"uniqueIndex:neighbor_floor_unit" validate:"required"`
	Name      string     `json:"name"`
	DateAdded types.Date `json:"dateAdded"`
}

func (n Neighbor) Identifier() uint64 {
	return n.ID
}

// Normalize trims and normalizes the strings and sets the default name.
func (n Neighbor) Normalize() Neighbor {
	n.Unit = normalize(n.Unit)
	n.Name = normalize(n.Name)

	if n.Name == "" && n.Unit != "" {
		n.Name = fmt.Sprintf("Apartment %s", n.Unit)
	}

	return n
}

// Validate verifies the fields of the neighbor. It does not check uniqueness.
func (n Neighbor) Validate() error {
	return validateStruct(n, map[string]error{
		"Floor": ErrFloorNegative,
		"Unit":  ErrUnitRequired,
	})
}

// SameUnit reports whether both neighbors identify the same unit.
func (n Neighbor) SameUnit(o Neighbor) bool {
	return n.Floor == o.Floor && normalize(n.Unit) == normalize(o.Unit)
}

// Label is the display name of the neighbor.
func (n Neighbor) Label() string {
	return fmt.Sprintf("Floor %d - Apt %s (%s)", n.Floor, n.Unit, n.Name)
}
