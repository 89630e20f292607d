package session

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/models"
)

func mustAddPerson(t *testing.T, s *models.Session, name string) string {
	t.Helper()
	id, err := AddPerson(s, name)
	if err != nil {
		t.Fatalf("AddPerson(%q) failed: %v", name, err)
	}
	return id
}

func mustAddItem(t *testing.T, s *models.Session, personID, name string, amount float64) string {
	t.Helper()
	id, err := AddItem(s, personID, name, amount)
	if err != nil {
		t.Fatalf("AddItem(%q, %v) failed: %v", name, amount, err)
	}
	return id
}

func TestSelectModeResetsState(t *testing.T) {
	for _, from := range []calculator.Mode{calculator.ModeEqual, calculator.ModeRandom, calculator.ModeRegistered} {
		for _, to := range []calculator.Mode{calculator.ModeEqual, calculator.ModeRandom, calculator.ModeRegistered} {
			if from == to {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				s := New(from)
				SetTotalAmount(s, "100")
				SetPeopleCount(s, "3")
				if from == calculator.ModeEqual {
					if _, err := Calculate(s, nil); err != nil {
						t.Fatalf("Calculate failed: %v", err)
					}
				} else {
					p := mustAddPerson(t, s, "Alice")
					mustAddItem(t, s, p, "Ramen", 900)
					s.Result = &models.Result{Total: 900}
				}

				SelectMode(s, to)

				if s.Mode != string(to) {
					t.Errorf("mode = %s, want %s", s.Mode, to)
				}
				if len(s.People) != 0 {
					t.Errorf("people = %d, want 0", len(s.People))
				}
				if s.TotalAmount != "" || s.PeopleCount != "" {
					t.Errorf("fields not cleared: total=%q count=%q", s.TotalAmount, s.PeopleCount)
				}
				if s.Result != nil {
					t.Errorf("result not cleared: %+v", s.Result)
				}
			})
		}
	}
}

func TestSelectSameModeKeepsState(t *testing.T) {
	s := New(calculator.ModeRegistered)
	mustAddPerson(t, s, "Alice")
	SetTotalAmount(s, "10")

	SelectMode(s, calculator.ModeRegistered)

	if len(s.People) != 1 || s.TotalAmount != "10" {
		t.Errorf("state changed on same-mode selection: %+v", s)
	}
}

func TestPeopleWithSameNameHaveDistinctIDs(t *testing.T) {
	s := New(calculator.ModeRegistered)
	a := mustAddPerson(t, s, "Taro")
	b := mustAddPerson(t, s, "Taro")
	if a == b {
		t.Fatalf("duplicate IDs for same name: %s", a)
	}

	mustAddItem(t, s, b, "Beer", 500)

	if len(s.People[0].Items) != 0 {
		t.Errorf("first Taro got an item: %+v", s.People[0].Items)
	}
	if len(s.People[1].Items) != 1 {
		t.Errorf("second Taro items = %d, want 1", len(s.People[1].Items))
	}
}

func TestPersonAndItemEditing(t *testing.T) {
	s := New(calculator.ModeRegistered)
	p := mustAddPerson(t, s, "Alice")
	item := mustAddItem(t, s, p, "Tea", 300)

	if err := UpdateItem(s, p, item, "Coffee", 450); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if got := s.People[0].Items[0]; got.Name != "Coffee" || got.Amount != 450 {
		t.Errorf("item = %+v, want Coffee 450", got)
	}

	if err := RenamePerson(s, p, "Alicia"); err != nil {
		t.Fatalf("RenamePerson failed: %v", err)
	}
	if s.People[0].Name != "Alicia" {
		t.Errorf("name = %q, want Alicia", s.People[0].Name)
	}

	if err := RemoveItem(s, p, item); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(s.People[0].Items) != 0 {
		t.Errorf("items = %d, want 0", len(s.People[0].Items))
	}

	if err := RemovePerson(s, p); err != nil {
		t.Fatalf("RemovePerson failed: %v", err)
	}
	if len(s.People) != 0 {
		t.Errorf("people = %d, want 0", len(s.People))
	}
}

func TestEditingErrors(t *testing.T) {
	s := New(calculator.ModeRegistered)
	p := mustAddPerson(t, s, "Alice")

	if _, err := AddPerson(s, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("AddPerson(blank) error = %v, want ErrEmptyName", err)
	}
	if _, err := AddItem(s, "missing", "x", 1); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("AddItem(missing person) error = %v, want ErrPersonNotFound", err)
	}
	if _, err := AddItem(s, p, "x", -1); !errors.Is(err, calculator.ErrInvalidInput) {
		t.Errorf("AddItem(negative) error = %v, want ErrInvalidInput", err)
	}
	if _, err := AddItem(s, p, "x", math.NaN()); !errors.Is(err, calculator.ErrInvalidInput) {
		t.Errorf("AddItem(NaN) error = %v, want ErrInvalidInput", err)
	}
	if err := UpdateItem(s, p, "missing", "x", 1); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("UpdateItem(missing item) error = %v, want ErrItemNotFound", err)
	}
	if err := RemovePerson(s, "missing"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("RemovePerson(missing) error = %v, want ErrPersonNotFound", err)
	}

	eq := New(calculator.ModeEqual)
	if _, err := AddPerson(eq, "Bob"); !errors.Is(err, ErrWrongMode) {
		t.Errorf("AddPerson in equal mode error = %v, want ErrWrongMode", err)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T) *models.Session
		wantErr      bool
		validateFunc func(t *testing.T, s *models.Session, r *models.Result)
	}{
		{
			name: "equal split synthesizes people",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeEqual)
				SetTotalAmount(s, "100")
				SetPeopleCount(s, "3")
				return s
			},
			validateFunc: func(t *testing.T, s *models.Session, r *models.Result) {
				if len(s.People) != 3 {
					t.Fatalf("people = %d, want 3", len(s.People))
				}
				for i, p := range s.People {
					if len(p.Items) != 1 || p.Items[0].Amount != 33 {
						t.Errorf("person %d items = %+v, want one share of 33", i, p.Items)
					}
					if r.Shares[i].PersonID != p.ID {
						t.Errorf("share %d person = %s, want %s", i, r.Shares[i].PersonID, p.ID)
					}
				}
				if s.People[0].Name != "Person 1" {
					t.Errorf("first name = %q, want Person 1", s.People[0].Name)
				}
				if r.Remainder != 1 {
					t.Errorf("remainder = %d, want 1", r.Remainder)
				}
			},
		},
		{
			name: "equal split with zero people gives no result",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeEqual)
				SetTotalAmount(s, "100")
				SetPeopleCount(s, "0")
				s.Result = &models.Result{Total: 1}
				return s
			},
			wantErr: true,
			validateFunc: func(t *testing.T, s *models.Session, r *models.Result) {
				if s.Result != nil {
					t.Errorf("stale result kept: %+v", s.Result)
				}
			},
		},
		{
			name: "failed equal recalculation clears synthetic people",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeEqual)
				SetTotalAmount(s, "100")
				SetPeopleCount(s, "3")
				if _, err := Calculate(s, nil); err != nil {
					t.Fatalf("first Calculate failed: %v", err)
				}
				SetPeopleCount(s, "0")
				return s
			},
			wantErr: true,
			validateFunc: func(t *testing.T, s *models.Session, r *models.Result) {
				if len(s.People) != 0 {
					t.Errorf("people = %d, want none left from the previous result", len(s.People))
				}
				if s.TotalAmount != "100" || s.PeopleCount != "0" {
					t.Errorf("fields changed: total %q count %q", s.TotalAmount, s.PeopleCount)
				}
			},
		},
		{
			name: "equal split with an unbounded people count gives no result",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeEqual)
				SetTotalAmount(s, "100")
				SetPeopleCount(s, "9223372036854775807")
				return s
			},
			wantErr: true,
			validateFunc: func(t *testing.T, s *models.Session, r *models.Result) {
				if len(s.People) != 0 {
					t.Errorf("people = %d, want 0", len(s.People))
				}
			},
		},
		{
			name: "equal split with non-numeric total gives no result",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeEqual)
				SetTotalAmount(s, "lots")
				SetPeopleCount(s, "2")
				return s
			},
			wantErr: true,
		},
		{
			name: "random split replaces items with shares",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeRandom)
				SetTotalAmount(s, "50")
				a := mustAddPerson(t, s, "Alice")
				mustAddItem(t, s, a, "old", 5)
				mustAddPerson(t, s, "Bob")
				return s
			},
			validateFunc: func(t *testing.T, s *models.Session, r *models.Result) {
				var sum int64
				for i, p := range s.People {
					if len(p.Items) != 1 || p.Items[0].Name != ShareItemName {
						t.Errorf("person %d items = %+v, want single share", i, p.Items)
					}
					if float64(r.Shares[i].Amount) != p.Items[0].Amount {
						t.Errorf("person %d item %v does not match share %d", i, p.Items[0].Amount, r.Shares[i].Amount)
					}
					sum += r.Shares[i].Amount
				}
				if sum != 50 {
					t.Errorf("sum = %d, want 50", sum)
				}
			},
		},
		{
			name: "random split without people gives no result",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeRandom)
				SetTotalAmount(s, "50")
				return s
			},
			wantErr: true,
		},
		{
			name: "registered split derives the total",
			setup: func(t *testing.T) *models.Session {
				s := New(calculator.ModeRegistered)
				a := mustAddPerson(t, s, "A")
				mustAddItem(t, s, a, "x", 10)
				mustAddItem(t, s, a, "y", 5)
				b := mustAddPerson(t, s, "B")
				mustAddItem(t, s, b, "z", 20)
				return s
			},
			validateFunc: func(t *testing.T, s *models.Session, r *models.Result) {
				if r.Total != 35 {
					t.Errorf("total = %d, want 35", r.Total)
				}
				if s.TotalAmount != "35" {
					t.Errorf("TotalAmount = %q, want 35", s.TotalAmount)
				}
				if len(s.People[0].Items) != 2 {
					t.Errorf("registered items were rewritten: %+v", s.People[0].Items)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setup(t)
			r, err := Calculate(s, rand.New(rand.NewPCG(3, 4)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Calculate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, calculator.ErrInvalidInput) {
				t.Errorf("error %v is not ErrInvalidInput", err)
			}
			if !tt.wantErr && s.Result != r {
				t.Errorf("result not stored on session")
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, s, r)
			}
		})
	}
}
