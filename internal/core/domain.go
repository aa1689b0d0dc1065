package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Spring SeasonType = "spring"
	Summer SeasonType = "summer"
	Fall   SeasonType = "fall"
	Winter SeasonType = "winter"
)

type (
	SeasonType string

	Date struct {
		time.Time
	}

	// Season is a bounded time period scoping all financial activity.
	// More than one season may be active at once; picking "the" current
	// season is a caller-side policy, never inferred here.
	Season struct {
		ID             string
		OrganizationID string
		Name           string
		Type           SeasonType
		Year           int
		StartDate      Date
		EndDate        Date
		IsActive       bool
		CreatedAt      time.Time
	}

	// Team is a roster scoped to exactly one season.
	Team struct {
		ID              string
		SeasonID        string
		Name            string
		AgeGroup        string
		Sport           string
		Gender          string
		CoachID         string
		MaxPlayers      int
		CurrentPlayers  int
		RegistrationFee Money
		CreatedAt       time.Time
	}

	// Budget is a planned amount for a season, optionally scoped to a team.
	// Category is an expense-category key or BudgetCategoryTotal.
	Budget struct {
		ID             string
		SeasonID       string
		TeamID         string // empty for season-wide budgets
		Category       string
		BudgetedAmount Money
		Notes          string
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	Expense struct {
		ID            string
		SeasonID      string
		TeamID        string // empty for season-wide expenses
		Category      ExpenseCategory
		Description   string
		Amount        Money
		Vendor        string
		ReceiptNumber string
		PaymentDate   Date
		Notes         string
		CreatedAt     time.Time
	}

	Revenue struct {
		ID          string
		SeasonID    string
		TeamID      string // empty for season-wide revenues
		Category    RevenueCategory
		Description string
		Amount      Money
		Source      string
		PaymentDate Date
		Notes       string
		CreatedAt   time.Time
	}
)

var (
	// ErrNotFound signals that a referenced season or team does not exist.
	// Storage implementations wrap it so callers can test with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrInvalidScope signals a record whose season/team attribution is
	// inconsistent, e.g. a child row referencing a team from another season.
	ErrInvalidScope = errors.New("inconsistent season/team scope")

	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyCategory      = errors.New("empty category")
	ErrMissingSeason      = errors.New("missing season reference")
	ErrInvalidSeasonType  = errors.New("invalid season type")
	ErrInvalidDateRange   = errors.New("end date before start date")
	ErrInvalidPlayerCount = errors.New("invalid player count")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date-only form used on the wire and in the database.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

func (t SeasonType) Valid() bool {
	switch t {
	case Spring, Summer, Fall, Winter:
		return true
	}
	return false
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !s.Type.Valid() {
		return ErrInvalidSeasonType
	}
	if err := s.StartDate.Validate(); err != nil {
		return err
	}
	if err := s.EndDate.Validate(); err != nil {
		return err
	}
	if s.EndDate.Before(s.StartDate.Time) {
		return ErrInvalidDateRange
	}
	return nil
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.SeasonID == "" {
		return ErrMissingSeason
	}
	if t.CurrentPlayers < 0 || t.MaxPlayers < 0 {
		return ErrInvalidPlayerCount
	}
	if t.RegistrationFee.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if b.SeasonID == "" {
		return ErrMissingSeason
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.BudgetedAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.SeasonID == "" {
		return ErrMissingSeason
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(string(e.Category)) == "" {
		return ErrEmptyCategory
	}
	return e.PaymentDate.Validate()
}

func (r Revenue) Validate() error {
	if r.SeasonID == "" {
		return ErrMissingSeason
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if r.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(string(r.Category)) == "" {
		return ErrEmptyCategory
	}
	return r.PaymentDate.Validate()
}
