package specification

import "gorm.io/gorm"

type ByService struct {
	Service string
}

func (s ByService) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("service = ?", s.Service)
}

type ActivePlans struct{}

func (s ActivePlans) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByOrderID struct {
	OrderID string
}

func (s ByOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderID)
}
