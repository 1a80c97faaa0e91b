package specification

import "gorm.io/gorm"

type ByPhone struct {
	Phone string
}

func (s ByPhone) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("phone = ?", s.Phone)
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}
