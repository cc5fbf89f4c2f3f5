package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Accommodation represents a hotel or other property listed on Roomie
type Accommodation struct {
	ID            string `json:"id" db:"id"`
	Host          string `json:"accommodationHost" db:"host"`
	Name          string `json:"accommodationName" db:"name"`
	Type          string `json:"accommodationType" db:"type"`
	Address       string `json:"address" db:"address"`
	LogoImageURL  string `json:"logoImageUrl,omitempty" db:"logo_image_url"`
	CoverImageURL string `json:"coverImageUrl,omitempty" db:"cover_image_url"`
}

// Room represents a bookable room that belongs to an accommodation
type Room struct {
	ID              string    `json:"id" db:"id"`
	AccommodationID string    `json:"accommodationId" db:"accommodation_id"`
	RoomType        string    `json:"roomType" db:"room_type"`
	Description     string    `json:"description,omitempty" db:"description"`
	Facilities      JSONArray `json:"facilities" db:"facilities"`
	Price           float64   `json:"price" db:"price"`
	BedSize         string    `json:"bedSize" db:"bed_size"`
	MaxOccupancy    int       `json:"maxOccupancy" db:"max_occupancy"`
	RoomNumber      string    `json:"roomNumber,omitempty" db:"room_number"`
	IsBooked        bool      `json:"isBooked" db:"is_booked"`
}

// Rating is a single user score (0-5) for an accommodation
type Rating struct {
	ID              string  `json:"id" db:"id"`
	AccommodationID string  `json:"accommodationId" db:"accommodation_id"`
	UserAccount     string  `json:"userAccount" db:"user_account"`
	Score           float64 `json:"rating" db:"rating"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSONArray source type %T", value)
	}
}
