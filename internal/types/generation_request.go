package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RequestStatusPending   = "PENDING"
	RequestStatusRunning   = "RUNNING"
	RequestStatusCompleted = "COMPLETED"
	RequestStatusError     = "ERROR"
)

// GenerationRequest is one queued unit of report-generation work: how many
// deals to simulate and under which conventions/tolerance/window parameters.
type GenerationRequest struct {
	ID                     uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DealCount              int            `gorm:"column:deal_nb;not null" json:"dealNb"`
	ConventionsBids        string         `gorm:"column:conventions_bids;not null" json:"conventionsBids"`
	ConventionsProfileBids string         `gorm:"column:conventions_profile_bids;not null" json:"conventionsProfileBids"`
	SuitTolerance          int            `gorm:"column:suit_tolerance;not null;default:0" json:"suitTolerance"`
	HCPTolerance           int            `gorm:"column:hcp_tolerance;not null;default:0" json:"hcpTolerance"`
	BidIndexMin            int            `gorm:"column:bid_index_min;not null;default:-1" json:"bidIndexMin"`
	BidIndexMax            int            `gorm:"column:bid_index_max;not null;default:-1" json:"bidIndexMax"`
	Status                 string         `gorm:"column:status;not null;default:PENDING;index" json:"status"`
	Error                  string         `gorm:"column:error" json:"error,omitempty"`
	Summary                datatypes.JSON `gorm:"type:jsonb;column:summary" json:"summary,omitempty"`
	CreatedAt              time.Time      `gorm:"not null;default:now();index" json:"createdAt"`
	UpdatedAt              time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
}

func (GenerationRequest) TableName() string { return "request" }
