package models

import "time"

// Setting represents one row of the settings key/value table. Number formats
// and start numbers live here and are read on every allocation, so an updated
// setting takes effect on the next generated number without a restart.
type Setting struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	SettingKey   string    `gorm:"column:setting_key;unique" json:"setting_key"`
	SettingValue string    `gorm:"column:setting_value" json:"setting_value"`
	Description  string    `gorm:"column:description" json:"description"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
