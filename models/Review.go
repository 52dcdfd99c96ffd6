package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	SpaceID uint         `json:"spaceID" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID  uint         `json:"userID" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User    User         `json:"user" gorm:"foreignKey:UserID"`
	Space   ParkingSpace `json:"space" gorm:"foreignKey:SpaceID"`
	Rating  int          `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string       `json:"comment" gorm:"type:text"`
	Hidden  bool         `json:"hidden" gorm:"default:false;index"`
}
