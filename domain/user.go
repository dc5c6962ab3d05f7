package domain

// UserMapping links the small ordinal shown in the UI to the external user id.
type UserMapping struct {
	UserNumber int    `gorm:"column:user_number;primaryKey" json:"user_number"`
	UserID     string `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
}

func (UserMapping) TableName() string {
	return "user_mappings"
}
