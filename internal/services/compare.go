package services

import (
	"github.com/midgardbridge/dealreport/internal/bridge"
	"github.com/midgardbridge/dealreport/internal/types"
)

// EvaluateRange checks one actual value against an expected range widened by
// tolerance on both ends (clamped at zero). It returns nil when the value is
// inside the widened range, bounds included; otherwise a Violation whose Gap
// is the distance to the nearest widened bound, which is always > 0.
func EvaluateRange(parameter string, expected types.Range, actual, tolerance int) *types.Violation {
	lo := expected.Min - tolerance
	if lo < 0 {
		lo = 0
	}
	hi := expected.Max + tolerance
	if hi < 0 {
		hi = 0
	}
	if actual >= lo && actual <= hi {
		return nil
	}
	gap := actual - hi
	if actual < lo {
		gap = lo - actual
	}
	return &types.Violation{
		Parameter:   parameter,
		Expected:    expected,
		Tolerance:   tolerance,
		ActualValue: actual,
		Gap:         gap,
	}
}

// CompareBidInfoToHand evaluates the oracle's expected ranges against the
// acting player's actual hand, hcp first then the four suits. A single bid
// can surface between zero and five violations.
func CompareBidInfoToHand(info types.BidInfo, hand bridge.Hand, suitTolerance, hcpTolerance int) []types.Violation {
	var violations []types.Violation
	if v := EvaluateRange(types.ParameterHCP, info.HCP, hand.HCP(), hcpTolerance); v != nil {
		violations = append(violations, *v)
	}
	suits := []struct {
		parameter string
		expected  types.Range
		suit      bridge.Suit
	}{
		{types.ParameterClub, info.Club, bridge.SuitClub},
		{types.ParameterDiamond, info.Diamond, bridge.SuitDiamond},
		{types.ParameterHeart, info.Heart, bridge.SuitHeart},
		{types.ParameterSpade, info.Spade, bridge.SuitSpade},
	}
	for _, s := range suits {
		if v := EvaluateRange(s.parameter, s.expected, hand.SuitCount(s.suit), suitTolerance); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}
