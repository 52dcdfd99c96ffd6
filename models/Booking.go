package models

import "gorm.io/gorm"

// Booking is created at checkout time and never mutated afterwards.
// SpaceID is carried as checkout metadata, not a foreign key, so a booking
// survives its listing being disabled.
type Booking struct {
	gorm.Model
	Reference     string `json:"reference" gorm:"size:64;uniqueIndex"`
	SpaceID       uint   `json:"spaceID" gorm:"index"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" gorm:"index"`
	CustomerPhone string `json:"customerPhone" gorm:"size:32"`
	VehicleReg    string `json:"vehicleReg" gorm:"size:16"`
	VehicleType   string `json:"vehicleType" gorm:"size:32"`
	Amount        int64  `json:"amount"` // minor currency units
	Currency      string `json:"currency" gorm:"size:8"`
	Description   string `json:"description" gorm:"type:text"`
	PriceID       string `json:"priceID" gorm:"size:128"`
	ProductID     string `json:"productID" gorm:"size:128"`
}
