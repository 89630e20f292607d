package session

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/models"
)

// Calculate runs the split for the session's mode and records the result.
//
// An equal split replaces the people with synthetic "Person N" entries, and a
// random split replaces each person's items with a single share item, so the
// people list always reflects what was settled. A registered split only reads
// the people and writes the derived total back into TotalAmount.
//
// Invalid input clears the stored result and returns an error wrapping
// calculator.ErrInvalidInput. In equal mode the synthetic people of the last
// result are cleared with it; otherwise the rest of the session is left
// untouched.
func Calculate(s *models.Session, rng *rand.Rand) (*models.Result, error) {
	var (
		r   *calculator.SplitResult
		err error
	)
	switch mode := calculator.Mode(s.Mode); mode {
	case calculator.ModeEqual:
		r, err = calculateEqual(s)
	case calculator.ModeRandom:
		r, err = calculateRandom(s, rng)
	case calculator.ModeRegistered:
		r = calculator.RegisteredSplit(toCalculator(s.People))
		s.TotalAmount = strconv.FormatInt(r.Total, 10)
	default:
		err = fmt.Errorf("unknown split mode: %q", s.Mode)
	}
	s.UpdatedAt = now()
	if err != nil {
		s.Result = nil
		return nil, err
	}

	s.Result = toResult(r)
	return s.Result, nil
}

func calculateEqual(s *models.Session) (*calculator.SplitResult, error) {
	r, err := equalSplit(s)
	if err != nil {
		s.People = nil
		return nil, err
	}

	people := make([]models.Person, len(r.Shares))
	for i := range r.Shares {
		people[i] = models.Person{
			ID:    uuid.New().String(),
			Name:  r.Shares[i].Name,
			Items: []models.Item{shareItem(r.Shares[i].Amount)},
		}
		r.Shares[i].PersonID = people[i].ID
	}
	s.People = people
	return r, nil
}

func equalSplit(s *models.Session) (*calculator.SplitResult, error) {
	total, err := calculator.ParseAmount(s.TotalAmount)
	if err != nil {
		return nil, err
	}
	count, err := calculator.ParseCount(s.PeopleCount)
	if err != nil {
		return nil, err
	}
	return calculator.EqualSplit(total, count)
}

func calculateRandom(s *models.Session, rng *rand.Rand) (*calculator.SplitResult, error) {
	total, err := calculator.ParseAmount(s.TotalAmount)
	if err != nil {
		return nil, err
	}
	r, err := calculator.RandomSplit(total, toCalculator(s.People), rng)
	if err != nil {
		return nil, err
	}
	for i := range s.People {
		s.People[i].Items = []models.Item{shareItem(r.Shares[i].Amount)}
	}
	return r, nil
}

func shareItem(amount int64) models.Item {
	return models.Item{ID: uuid.New().String(), Name: ShareItemName, Amount: float64(amount)}
}

func toCalculator(people []models.Person) []calculator.Person {
	out := make([]calculator.Person, len(people))
	for i, p := range people {
		items := make([]calculator.Item, len(p.Items))
		for j, it := range p.Items {
			items[j] = calculator.Item{ID: it.ID, Name: it.Name, Amount: it.Amount}
		}
		out[i] = calculator.Person{ID: p.ID, Name: p.Name, Items: items}
	}
	return out
}

func toResult(r *calculator.SplitResult) *models.Result {
	shares := make([]models.Share, len(r.Shares))
	for i, sh := range r.Shares {
		shares[i] = models.Share{PersonID: sh.PersonID, Name: sh.Name, Amount: sh.Amount}
	}
	return &models.Result{
		Mode:      string(r.Mode),
		Total:     r.Total,
		Remainder: r.Remainder,
		Shares:    shares,
	}
}
