package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// DefaultAddress is stored for locations created without an address.
const DefaultAddress = "N/A"

// Location is a place on campus where study sessions take place.
type Location struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Address   string  `gorm:"not null;default:'N/A'"`
}

func (c *Client) CreateLocation(ctx context.Context, location *Location) error {
	if location.Address == "" {
		location.Address = DefaultAddress
	}
	if err := c.db.WithContext(ctx).Create(location).Error; err != nil {
		log.Error("failed to create location", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetLocation(ctx context.Context, id uint) (*Location, error) {
	var location Location
	if err := c.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		log.Error("failed to get location", "error", err)
		return nil, err
	}
	return &location, nil
}

func (c *Client) GetLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := c.db.WithContext(ctx).Order("id").Find(&locations).Error; err != nil {
		log.Error("failed to get locations", "error", err)
		return nil, err
	}
	return locations, nil
}
