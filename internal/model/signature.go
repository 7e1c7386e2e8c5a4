package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Signature approves a worker's hours for one month.
type Signature struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	WorkerID  int64     `gorm:"uniqueIndex:idx_signatures_month;not null" json:"worker_id"`
	CompanyID string    `gorm:"type:varchar(64);index;not null" json:"company_id"`
	Year      int       `gorm:"uniqueIndex:idx_signatures_month;not null" json:"year"`
	Month     int       `gorm:"uniqueIndex:idx_signatures_month;not null" json:"month"` // 1-12
	Type      string    `gorm:"type:varchar(10);not null" json:"type"`                  // full | partial
	Days      DayList   `gorm:"type:text" json:"days,omitempty"`
	SignedAt  time.Time `gorm:"not null" json:"signed_at"`
}

func (Signature) TableName() string { return "signatures" }

// DayList is a list of day-of-month numbers stored as JSON text.
type DayList []int

func (d DayList) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal([]int(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DayList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), (*[]int)(d))
	case []byte:
		return json.Unmarshal(v, (*[]int)(d))
	default:
		return fmt.Errorf("day list: unsupported type %T", src)
	}
}
