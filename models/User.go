package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Email            string         `json:"email" gorm:"index"`
	Password         string         `json:"-"`
	SocialLogin      bool           `json:"socialLogin"`
	SocialProvider   string         `json:"socialProvider"`
	Role             string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin, super_admin
	Active           *bool          `json:"active"`
	StripeCustomerID string         `json:"stripeCustomerID" gorm:"size:64"`
	SavedSpaces      datatypes.JSON `json:"savedSpaces"`
	Spaces           []ParkingSpace `json:"spaces,omitempty" gorm:"foreignKey:HostID;references:ID"`
}

// Custom JSON marshaling to render SavedSpaces as an int array
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		SavedSpaces []int `json:"savedSpaces"`
		*Alias
	}{
		SavedSpaces: []int{},
		Alias:       (*Alias)(u),
	}

	if u.SavedSpaces != nil {
		var saved []int
		if err := json.Unmarshal(u.SavedSpaces, &saved); err == nil {
			aux.SavedSpaces = saved
		}
	}

	// Spaces are omitted when not preloaded; the association itself carries
	// no circular payload because ParkingSpace strips its host's Spaces.

	return json.Marshal(aux)
}
