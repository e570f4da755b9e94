package models

const TagDefaultColor = "#9CA3AF"

type Tag struct {
	BaseModel
	Name      string `gorm:"uniqueIndex;not null"`
	Color     string `gorm:"default:'#9CA3AF'"`
	CreatedBy string `gorm:"type:uuid"`
}
