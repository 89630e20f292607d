package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// maxTotal keeps floored totals well inside int64.
const maxTotal = 1e15

// MaxPeople bounds the number of synthetic participants an equal split creates.
const MaxPeople = 10000

// ErrInvalidInput is returned when a total or people count cannot be used for a split.
// Callers treat it as "no computation performed" and render a neutral state.
var ErrInvalidInput = errors.New("invalid input")

// Item represents a single charge or share attributed to a person.
type Item struct {
	ID     string
	Name   string
	Amount float64
}

// Person represents one participant and the items attributed to them.
type Person struct {
	ID    string
	Name  string
	Items []Item
}

// Share is the settled amount for one person.
type Share struct {
	PersonID string
	Name     string
	Amount   int64
}

// SplitResult is the outcome of one split computation.
type SplitResult struct {
	Mode Mode

	// Total is the floored total the shares were computed from. For a registered
	// split it is derived from the items instead.
	Total int64

	// Remainder is the part of Total not assigned to anyone. Only an equal split
	// can leave a remainder, and it is always smaller than the number of shares.
	Remainder int64

	Shares []Share
}

// Distributed returns the sum of all shares.
func (r *SplitResult) Distributed() int64 {
	var sum int64
	for _, s := range r.Shares {
		sum += s.Amount
	}
	return sum
}

// EqualSplit floors the total and floor-divides it among peopleCount synthetic
// participants named "Person 1".."Person N". Any remainder is dropped and
// reported in SplitResult.Remainder.
func EqualSplit(totalAmount float64, peopleCount int) (*SplitResult, error) {
	total, err := floorTotal(totalAmount)
	if err != nil {
		return nil, err
	}
	if peopleCount <= 0 {
		return nil, fmt.Errorf("%w: people count must be positive, got %d", ErrInvalidInput, peopleCount)
	}
	if peopleCount > MaxPeople {
		return nil, fmt.Errorf("%w: people count %d exceeds %d", ErrInvalidInput, peopleCount, MaxPeople)
	}

	per := total / int64(peopleCount)
	shares := make([]Share, peopleCount)
	for i := range shares {
		shares[i] = Share{
			Name:   fmt.Sprintf("Person %d", i+1),
			Amount: per,
		}
	}

	return &SplitResult{
		Mode:      ModeEqual,
		Total:     total,
		Remainder: total - per*int64(peopleCount),
		Shares:    shares,
	}, nil
}

// RandomSplit partitions the floored total among people in order. Everyone but
// the last person draws a uniform integer in [0, remaining); the last person
// receives whatever is left, so the shares always sum to the floored total.
//
// Earlier participants draw from a larger pool, so later participants tend to
// receive smaller amounts. That skew is intentional.
func RandomSplit(totalAmount float64, people []Person, rng *rand.Rand) (*SplitResult, error) {
	total, err := floorTotal(totalAmount)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, fmt.Errorf("%w: random split needs at least one person", ErrInvalidInput)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	remaining := total
	shares := make([]Share, len(people))
	for i, p := range people {
		amount := remaining
		if i < len(people)-1 {
			amount = 0
			if remaining > 0 {
				amount = rng.Int64N(remaining)
			}
		}
		remaining -= amount
		shares[i] = Share{PersonID: p.ID, Name: p.Name, Amount: amount}
	}

	return &SplitResult{
		Mode:   ModeRandom,
		Total:  total,
		Shares: shares,
	}, nil
}

// RegisteredSplit settles each person at the floored sum of their own items.
// The grand total is the floor of the unrounded sum across everyone, so it can
// exceed the sum of the floored shares. Items with a negative or non-finite
// amount are ignored.
func RegisteredSplit(people []Person) *SplitResult {
	var grand float64
	shares := make([]Share, len(people))
	for i, p := range people {
		var sum float64
		for _, item := range p.Items {
			if !ValidAmount(item.Amount) {
				continue
			}
			sum += item.Amount
		}
		grand += sum
		shares[i] = Share{PersonID: p.ID, Name: p.Name, Amount: int64(math.Floor(sum))}
	}

	return &SplitResult{
		Mode:   ModeRegistered,
		Total:  int64(math.Floor(grand)),
		Shares: shares,
	}
}

// ValidAmount reports whether v is usable as a currency amount.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func floorTotal(totalAmount float64) (int64, error) {
	if !ValidAmount(totalAmount) {
		return 0, fmt.Errorf("%w: total amount must be a finite non-negative number, got %v", ErrInvalidInput, totalAmount)
	}
	if totalAmount > maxTotal {
		return 0, fmt.Errorf("%w: total amount %v is too large", ErrInvalidInput, totalAmount)
	}
	return int64(math.Floor(totalAmount)), nil
}
