package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ParkingSpace struct {
	gorm.Model
	HostID        uint       `json:"hostID" gorm:"index"`
	Title         string     `json:"title"`
	Description   string     `json:"description" gorm:"type:text"`
	Location      string     `json:"location"`
	Postcode      string     `json:"postcode" gorm:"index"`
	Address       string     `json:"address"`
	Lat           float32    `json:"lat"`
	Lng           float32    `json:"lng"`
	PricePerHour  float32    `json:"pricePerHour"`
	PricePerDay   float32    `json:"pricePerDay"`
	PricePerWeek  float32    `json:"pricePerWeek"`
	PricePerMonth float32    `json:"pricePerMonth"`
	TotalSpaces   int        `json:"totalSpaces"`
	BookedSpaces  int        `json:"bookedSpaces"`
	AvailableFrom *time.Time `json:"availableFrom"`
	AvailableTo   *time.Time `json:"availableTo"`
	IsAvailable   *bool      `json:"isAvailable" gorm:"index"`
	Features      string     `json:"features"` // comma-delimited tags
	ImageURL      string     `json:"imageURL" gorm:"size:512"`
	Reviews       []Review   `json:"reviews,omitempty" gorm:"foreignKey:SpaceID"`
	Host          User       `json:"host" gorm:"foreignKey:HostID;references:ID"`
}

// AvailableSpaces returns the bookable remainder, never negative.
func (p *ParkingSpace) AvailableSpaces() int {
	n := p.TotalSpaces - p.BookedSpaces
	if n < 0 {
		return 0
	}
	return n
}

// Custom JSON marshaling to expose Features as an array, the derived
// availableSpaces count, and to avoid circular host references
func (p *ParkingSpace) MarshalJSON() ([]byte, error) {
	type Alias ParkingSpace
	aux := &struct {
		Features        []string `json:"features"`
		AvailableSpaces int      `json:"availableSpaces"`
		Host            *User    `json:"host,omitempty"`
		*Alias
	}{
		Features:        []string{},
		AvailableSpaces: p.AvailableSpaces(),
		Host:            nil,
		Alias:           (*Alias)(p),
	}

	if p.Features != "" {
		for _, f := range strings.Split(p.Features, ",") {
			if f = strings.TrimSpace(f); f != "" {
				aux.Features = append(aux.Features, f)
			}
		}
	}

	// Only include host if it was loaded, without its Spaces to prevent cycles
	if p.Host.ID > 0 {
		hostCopy := p.Host
		hostCopy.Spaces = nil
		aux.Host = &hostCopy
	}

	return json.Marshal(aux)
}
