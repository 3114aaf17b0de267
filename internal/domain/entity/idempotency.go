package entity

import (
	"time"

	"gorm.io/datatypes"
)

// IdempotencyKey stores the outcome of the first attempt of an operation,
// keyed by the caller-supplied idempotency key. Rows are never updated.
type IdempotencyKey struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	Key            string         `gorm:"column:idempotency_key;uniqueIndex;size:255;not null" json:"key"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	ResponseStatus *int           `json:"response_status"`
	ResponseBody   datatypes.JSON `json:"response_body"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// StatusOr returns the stored status, or fallback when none was recorded
func (i *IdempotencyKey) StatusOr(fallback int) int {
	if i.ResponseStatus == nil {
		return fallback
	}
	return *i.ResponseStatus
}
