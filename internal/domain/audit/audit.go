package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionRegisterPatient Action = "register_patient"
	ActionAddTestResult   Action = "add_test_result"
	ActionReadResults     Action = "read_results"
)

// Log is one immutable audit trail entry. Entries are written once and
// never updated.
type Log struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	Action Action `gorm:"column:action;type:varchar(30);not null;index"`

	// MRN of the affected patient record, zero when the request never
	// resolved to one.
	MRN int64 `gorm:"column:mrn;index"`

	RequestID  string `gorm:"column:request_id;type:varchar(50);index"`
	IPAddress  string `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6
	StatusCode int    `gorm:"column:status_code"`
	Detail     string `gorm:"column:detail;type:text"`
}

func (Log) TableName() string {
	return "audit.logs"
}

type Repository interface {
	Create(ctx context.Context, entry *Log) error
}
