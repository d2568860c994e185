package bridge

import (
	"math/rand"
	"strings"
)

type Seat int

const (
	SeatNorth Seat = iota
	SeatEast
	SeatSouth
	SeatWest
)

var seatNames = [4]string{"N", "E", "S", "W"}

func (s Seat) Name() string { return seatNames[s] }

func (s Seat) Next() Seat { return (s + 1) % 4 }

const (
	VulnerabilityNone = "NONE"
	VulnerabilityNS   = "NS"
	VulnerabilityEW   = "EW"
	VulnerabilityAll  = "ALL"
)

var vulnerabilities = [4]string{VulnerabilityNone, VulnerabilityNS, VulnerabilityEW, VulnerabilityAll}

const BidPass = "P"

// Deal is one simulated 52-card distribution plus its evolving bid sequence.
// It is owned by a single simulation pass and never persisted directly.
type Deal struct {
	Dealer        Seat
	Vulnerability string
	Hands         [4]Hand
	Bids          []string
}

// RandomDeal shuffles a full deck into four hands of 13 and draws a random
// dealer and vulnerability.
func RandomDeal(rng *rand.Rand) *Deal {
	deck := make([]Card, 0, 52)
	for suit := SuitClub; suit <= SuitSpade; suit++ {
		for rank := 2; rank <= RankAce; rank++ {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	d := &Deal{
		Dealer:        Seat(rng.Intn(4)),
		Vulnerability: vulnerabilities[rng.Intn(4)],
	}
	for seat := 0; seat < 4; seat++ {
		hand := make(Hand, 13)
		copy(hand, deck[seat*13:(seat+1)*13])
		d.Hands[seat] = hand
	}
	return d
}

// CurrentSeat is the player about to act: the dealer advanced by the number
// of bids already made.
func (d *Deal) CurrentSeat() Seat {
	return Seat((int(d.Dealer) + len(d.Bids)) % 4)
}

func (d *Deal) CurrentHand() Hand {
	return d.Hands[d.CurrentSeat()]
}

func (d *Deal) AddBid(name string) {
	d.Bids = append(d.Bids, name)
}

// AuctionFinished reports whether bidding has naturally concluded: four
// opening passes, or any bid followed by three consecutive passes.
func (d *Deal) AuctionFinished() bool {
	n := len(d.Bids)
	if n < 4 {
		return false
	}
	for i := n - 3; i < n; i++ {
		if d.Bids[i] != BidPass {
			return false
		}
	}
	return true
}

// DistributionString renders the four hands in seat order N E S W, each as
// spade.heart.diamond.club. Used as the stable dedup key for a deal.
func (d *Deal) DistributionString() string {
	parts := make([]string, 0, 4)
	for seat := 0; seat < 4; seat++ {
		parts = append(parts, seatNames[seat]+":"+d.Hands[seat].String())
	}
	return strings.Join(parts, " ")
}

// BidsString concatenates the bid names made so far, e.g. "P1CP1H".
func (d *Deal) BidsString() string {
	return strings.Join(d.Bids, "")
}
