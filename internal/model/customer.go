package model

import "time"

// DefaultTermsDays is applied when a customer is created without payment terms.
const DefaultTermsDays = 30

// Customer is a supermarket or shop receiving deliveries.
// Terms is the number of calendar days between invoice issue and due date.
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"index;not null"`
	Address   string
	Contact   string
	Terms     int `gorm:"not null"`
	CreatedAt time.Time
}
