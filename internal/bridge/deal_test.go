package bridge

import (
	"math/rand"
	"strings"
	"testing"
)

func TestRandomDealShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		d := RandomDeal(rng)
		totalHCP := 0
		seen := map[Card]bool{}
		for seat := 0; seat < 4; seat++ {
			if len(d.Hands[seat]) != 13 {
				t.Fatalf("seat %d has %d cards, want 13", seat, len(d.Hands[seat]))
			}
			for _, c := range d.Hands[seat] {
				if seen[c] {
					t.Fatalf("card %+v dealt twice", c)
				}
				seen[c] = true
			}
			totalHCP += d.Hands[seat].HCP()
		}
		if len(seen) != 52 {
			t.Fatalf("dealt %d distinct cards, want 52", len(seen))
		}
		if totalHCP != 40 {
			t.Fatalf("deck HCP = %d, want 40", totalHCP)
		}
	}
}

func TestAuctionFinished(t *testing.T) {
	cases := []struct {
		name string
		bids []string
		want bool
	}{
		{name: "empty", bids: nil, want: false},
		{name: "three_opening_passes", bids: []string{"P", "P", "P"}, want: false},
		{name: "four_opening_passes", bids: []string{"P", "P", "P", "P"}, want: true},
		{name: "bid_then_two_passes", bids: []string{"1C", "P", "P"}, want: false},
		{name: "bid_then_three_passes", bids: []string{"1C", "P", "P", "P"}, want: true},
		{name: "competitive_still_open", bids: []string{"1C", "P", "P", "1S"}, want: false},
		{name: "long_auction_closed", bids: []string{"P", "1H", "X", "2H", "4S", "P", "P", "P"}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Deal{Bids: tc.bids}
			if got := d.AuctionFinished(); got != tc.want {
				t.Fatalf("AuctionFinished(%v)=%v, want %v", tc.bids, got, tc.want)
			}
		})
	}
}

func TestCurrentSeatRotation(t *testing.T) {
	d := &Deal{Dealer: SeatWest}
	want := []Seat{SeatWest, SeatNorth, SeatEast, SeatSouth, SeatWest}
	for i, w := range want {
		if got := d.CurrentSeat(); got != w {
			t.Fatalf("after %d bids CurrentSeat()=%s, want %s", i, got.Name(), w.Name())
		}
		d.AddBid(BidPass)
	}
}

func TestDistributionString(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := RandomDeal(rng)
	s := d.DistributionString()
	parts := strings.Split(s, " ")
	if len(parts) != 4 {
		t.Fatalf("distribution %q has %d hands, want 4", s, len(parts))
	}
	for i, prefix := range []string{"N:", "E:", "S:", "W:"} {
		if !strings.HasPrefix(parts[i], prefix) {
			t.Fatalf("hand %d = %q, want prefix %q", i, parts[i], prefix)
		}
		if strings.Count(parts[i], ".") != 3 {
			t.Fatalf("hand %d = %q, want 4 dot-separated suits", i, parts[i])
		}
		// 13 rank letters + 3 dots + seat prefix
		if len(parts[i]) != 2+13+3 {
			t.Fatalf("hand %d = %q has length %d, want %d", i, parts[i], len(parts[i]), 2+13+3)
		}
	}
	// Same deal must render identically: the string is a dedup key.
	if again := d.DistributionString(); again != s {
		t.Fatalf("DistributionString not stable: %q vs %q", s, again)
	}
}

func TestHandString(t *testing.T) {
	h := Hand{
		{Suit: SuitSpade, Rank: RankAce}, {Suit: SuitSpade, Rank: RankQueen},
		{Suit: SuitHeart, Rank: 10}, {Suit: SuitHeart, Rank: 3},
		{Suit: SuitDiamond, Rank: RankKing},
		{Suit: SuitClub, Rank: 9}, {Suit: SuitClub, Rank: 2},
	}
	if got, want := h.String(), "AQ.T3.K.92"; got != want {
		t.Fatalf("Hand.String()=%q, want %q", got, want)
	}
	if got := h.HCP(); got != 4+2+3 {
		t.Fatalf("Hand.HCP()=%d, want 9", got)
	}
	if got := h.SuitCount(SuitHeart); got != 2 {
		t.Fatalf("SuitCount(heart)=%d, want 2", got)
	}
}
