package repo

import "gorm.io/gorm"

// GormRepo is the data-access layer for users and cities. It holds no state
// besides the connection; every method is safe for concurrent use.
type GormRepo struct {
	DB *gorm.DB
}
