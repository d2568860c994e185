package types

// Parameters a bid's statistical range constrains. One BidInfo carries a range
// for each of the five.
const (
	ParameterHCP     = "hcp"
	ParameterClub    = "club"
	ParameterDiamond = "diamond"
	ParameterHeart   = "heart"
	ParameterSpade   = "spade"
)

// Range is an inclusive [Min, Max] interval, in points or card counts.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// BidInfo is the oracle's expected hand shape for the player making a bid.
type BidInfo struct {
	HCP     Range `json:"hcp"`
	Club    Range `json:"club"`
	Diamond Range `json:"diamond"`
	Heart   Range `json:"heart"`
	Spade   Range `json:"spade"`
}

// Violation is one out-of-tolerance parameter for one evaluated bid. Gap is
// the distance from the nearest tolerance-widened bound, always > 0.
type Violation struct {
	Parameter   string `json:"parameter"`
	Expected    Range  `json:"expectedRange"`
	Tolerance   int    `json:"tolerance"`
	ActualValue int    `json:"actualValue"`
	Gap         int    `json:"gap"`
}
