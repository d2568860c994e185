package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusNew       = "NEW"
	ReportStatusConfirmed = "CONFIRMED"
	ReportStatusRejected  = "REJECTED"
	ReportStatusFixed     = "FIXED"
)

// Report is one persisted tolerance violation: an actual hand fell outside the
// oracle's tolerance-widened expected range for one parameter at one bid.
// Bids holds the sequence truncated exactly at the offending bid, which is
// also part of the dedup tuple together with Distribution, the two convention
// blobs and Parameter.
type Report struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Dealer                 string    `gorm:"column:dealer;not null" json:"dealer"`
	Vulnerability          string    `gorm:"column:vulnerability;not null" json:"vulnerability"`
	Distribution           string    `gorm:"column:distribution;not null;index" json:"distribution"`
	Bids                   string    `gorm:"column:bids;not null" json:"bids"`
	ProblematicBidIdx      int       `gorm:"column:problematic_bid_idx;not null" json:"problematicBidIdx"`
	ConventionsBids        string    `gorm:"column:conventions_bids;not null" json:"conventionsBids"`
	ConventionsProfileBids string    `gorm:"column:conventions_profile_bids;not null" json:"conventionsProfileBids"`
	Parameter              string    `gorm:"column:parameter;not null" json:"parameter"`
	ExpectedMin            int       `gorm:"column:expected_min;not null" json:"expectedMin"`
	ExpectedMax            int       `gorm:"column:expected_max;not null" json:"expectedMax"`
	Tolerance              int       `gorm:"column:tolerance;not null;default:0" json:"tolerance"`
	ActualValue            int       `gorm:"column:actual_value;not null" json:"actualValue"`
	Gap                    int       `gorm:"column:gap;not null" json:"gap"`
	Status                 string    `gorm:"column:status;not null;default:NEW;index" json:"status"`
	NewExpectedMin         *int      `gorm:"column:new_expected_min" json:"newExpectedMin,omitempty"`
	NewExpectedMax         *int      `gorm:"column:new_expected_max" json:"newExpectedMax,omitempty"`
	AlternativeBid         string    `gorm:"column:alternative_bid" json:"alternativeBid,omitempty"`
	CreatedAt              time.Time `gorm:"not null;default:now();index" json:"createdAt"`
	UpdatedAt              time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Report) TableName() string { return "report" }
