package bridge

import "strings"

type Suit int

const (
	SuitClub Suit = iota
	SuitDiamond
	SuitHeart
	SuitSpade
)

var suitNames = [4]string{"club", "diamond", "heart", "spade"}

func (s Suit) Name() string { return suitNames[s] }

// Ranks run 2..14 with ace high.
const (
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

var rankLetters = map[int]string{
	10: "T", RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A",
}

type Card struct {
	Suit Suit
	Rank int
}

// HCP returns the card's high-card points (A=4, K=3, Q=2, J=1).
func (c Card) HCP() int {
	if c.Rank > 10 {
		return c.Rank - 10
	}
	return 0
}

func (c Card) RankLetter() string {
	if letter, ok := rankLetters[c.Rank]; ok {
		return letter
	}
	return string(rune('0' + c.Rank))
}

// Hand is the 13 cards held by one seat.
type Hand []Card

func (h Hand) HCP() int {
	total := 0
	for _, c := range h {
		total += c.HCP()
	}
	return total
}

func (h Hand) SuitCount(s Suit) int {
	n := 0
	for _, c := range h {
		if c.Suit == s {
			n++
		}
	}
	return n
}

// suitString lists the hand's ranks in one suit, highest first.
func (h Hand) suitString(s Suit) string {
	var b strings.Builder
	for rank := RankAce; rank >= 2; rank-- {
		for _, c := range h {
			if c.Suit == s && c.Rank == rank {
				b.WriteString(c.RankLetter())
			}
		}
	}
	return b.String()
}

// String renders the hand as spade.heart.diamond.club, e.g. "AQ95.632.KJ4.T82".
func (h Hand) String() string {
	parts := make([]string, 0, 4)
	for _, s := range []Suit{SuitSpade, SuitHeart, SuitDiamond, SuitClub} {
		parts = append(parts, h.suitString(s))
	}
	return strings.Join(parts, ".")
}
