package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validSeason() Season {
	return Season{
		Name:      "Fall 2025",
		Type:      Fall,
		Year:      2025,
		StartDate: NewDate(2025, 9, 1),
		EndDate:   NewDate(2025, 11, 30),
		IsActive:  true,
	}
}

func TestSeasonValidate(t *testing.T) {
	if err := validSeason().Validate(); err != nil {
		t.Fatalf("valid season rejected: %v", err)
	}

	s := validSeason()
	s.Name = "  "
	if err := s.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: got %v, want ErrEmptyName", err)
	}

	s = validSeason()
	s.Type = "monsoon"
	if err := s.Validate(); !errors.Is(err, ErrInvalidSeasonType) {
		t.Errorf("bad type: got %v, want ErrInvalidSeasonType", err)
	}

	s = validSeason()
	s.EndDate = NewDate(2025, 8, 1)
	if err := s.Validate(); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("end before start: got %v, want ErrInvalidDateRange", err)
	}

	s = validSeason()
	s.StartDate = Date{}
	if err := s.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("zero start date: got %v, want ErrInvalidDate", err)
	}
}

func TestTeamValidate(t *testing.T) {
	team := Team{SeasonID: "s1", Name: "U10 Hawks", MaxPlayers: 20, CurrentPlayers: 15, RegistrationFee: Money{Cents: 15000}}
	if err := team.Validate(); err != nil {
		t.Fatalf("valid team rejected: %v", err)
	}

	bad := team
	bad.SeasonID = ""
	if err := bad.Validate(); !errors.Is(err, ErrMissingSeason) {
		t.Errorf("missing season: got %v", err)
	}

	bad = team
	bad.CurrentPlayers = -1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Errorf("negative players: got %v", err)
	}

	bad = team
	bad.RegistrationFee = Money{Cents: -100}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative fee: got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{SeasonID: "s1", Category: BudgetCategoryTotal, BudgetedAmount: Money{Cents: 500000}}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	b.Category = ""
	if err := b.Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("empty category: got %v", err)
	}

	b.Category = "equipment"
	b.BudgetedAmount = Money{Cents: -1}
	if err := b.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v", err)
	}

	// A zero budget row is legal.
	b.BudgetedAmount = Money{}
	if err := b.Validate(); err != nil {
		t.Errorf("zero amount rejected: %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	e := Expense{
		SeasonID:    "s1",
		Category:    ExpenseEquipment,
		Description: "Practice balls",
		Amount:      Money{Cents: 4500},
		PaymentDate: NewDate(2025, 9, 15),
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	bad := e
	bad.Amount = Money{}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v", err)
	}

	bad = e
	bad.Description = strings.Repeat("x", 201)
	if err := bad.Validate(); err == nil {
		t.Error("overlong description accepted")
	}

	bad = e
	bad.PaymentDate = Date{}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("zero date: got %v", err)
	}
}

func TestRevenueValidate(t *testing.T) {
	r := Revenue{
		SeasonID:    "s1",
		Category:    RevenueRegistrationFees,
		Description: "Registration fees",
		Amount:      Money{Cents: 150000},
		PaymentDate: NewDate(2025, 9, 1),
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid revenue rejected: %v", err)
	}

	r.Description = ""
	if err := r.Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("empty description: got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 9, 1)
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-09-01"` {
		t.Errorf("marshal = %s", out)
	}

	var back Date
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"09/01/2025"`), &back); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad format: got %v, want ErrInvalidDate", err)
	}
}
