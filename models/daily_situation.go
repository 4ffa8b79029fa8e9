package models

import (
	"time"

	"gorm.io/gorm"
)

// DailySituation is the headcount snapshot of a Unite for one calendar day
type DailySituation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UniteID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_daily_situation_unite_date" json:"uniteId"`
	Date          time.Time `gorm:"not null;uniqueIndex:idx_daily_situation_unite_date" json:"date"`
	EffectifTotal int       `json:"effectifTotal"`
	Militaires    int       `json:"militaires"`
	Civils        int       `json:"civils"`
	Presents      int       `json:"presents"`
	EnMission     int       `json:"enMission"`
	EnConge       int       `json:"enConge"`
	Autres        int       `json:"autres"`
	Observations  string    `gorm:"type:text" json:"observations"`
}

// BeforeCreate hook to generate UUID
func (d *DailySituation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// TableName specifies the table name for DailySituation model
func (DailySituation) TableName() string {
	return "daily_situations"
}

// SnapshotDate returns the calendar day of t, read in t's own location, as
// midnight UTC. Every caller stores the same instant for the same day.
func SnapshotDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
