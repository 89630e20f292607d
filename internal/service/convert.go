package service

import (
	"github.com/mmynk/warikan/internal/api"
	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/models"
)

func peopleFromAPI(people []api.Person) []calculator.Person {
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

func resultToAPI(r *calculator.SplitResult, unit string) *api.Result {
	shares := make([]api.Share, len(r.Shares))
	for i, s := range r.Shares {
		shares[i] = api.Share{
			PersonID: s.PersonID,
			Name:     s.Name,
			Amount:   s.Amount,
			Display:  calculator.FormatAmount(s.Amount, unit),
		}
	}
	return &api.Result{
		Mode:         string(r.Mode),
		Total:        r.Total,
		TotalDisplay: calculator.FormatAmount(r.Total, unit),
		Remainder:    r.Remainder,
		Shares:       shares,
	}
}

func storedResultToAPI(r *models.Result, unit string) *api.Result {
	if r == nil {
		return nil
	}
	shares := make([]api.Share, len(r.Shares))
	for i, s := range r.Shares {
		shares[i] = api.Share{
			PersonID: s.PersonID,
			Name:     s.Name,
			Amount:   s.Amount,
			Display:  calculator.FormatAmount(s.Amount, unit),
		}
	}
	return &api.Result{
		Mode:         r.Mode,
		Total:        r.Total,
		TotalDisplay: calculator.FormatAmount(r.Total, unit),
		Remainder:    r.Remainder,
		Shares:       shares,
	}
}

func sessionToAPI(s *models.Session, unit string) *api.Session {
	people := make([]api.Person, len(s.People))
	for i, p := range s.People {
		items := make([]api.Item, len(p.Items))
		for j, it := range p.Items {
			items[j] = api.Item{ID: it.ID, Name: it.Name, Amount: it.Amount}
		}
		people[i] = api.Person{ID: p.ID, Name: p.Name, Items: items}
	}
	return &api.Session{
		ID:          s.ID,
		Mode:        s.Mode,
		TotalAmount: s.TotalAmount,
		PeopleCount: s.PeopleCount,
		People:      people,
		Result:      storedResultToAPI(s.Result, unit),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
