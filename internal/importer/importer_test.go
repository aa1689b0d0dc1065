package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"clubledger/internal/core"
)

type fakeStore struct {
	seasons  []core.Season
	teams    []core.Team
	expenses []core.Expense
	revenues []core.Revenue

	expenseBatches []int
	createTeamErr  error
}

func (f *fakeStore) CreateSeason(_ context.Context, s core.Season) (core.Season, error) {
	if err := s.Validate(); err != nil {
		return core.Season{}, err
	}
	s.ID = fmt.Sprintf("s%d", len(f.seasons)+1)
	f.seasons = append(f.seasons, s)
	return s, nil
}

func (f *fakeStore) CreateTeam(_ context.Context, t core.Team) (core.Team, error) {
	if f.createTeamErr != nil {
		return core.Team{}, f.createTeamErr
	}
	if err := t.Validate(); err != nil {
		return core.Team{}, err
	}
	t.ID = fmt.Sprintf("t%d", len(f.teams)+1)
	f.teams = append(f.teams, t)
	return t, nil
}

func (f *fakeStore) InsertExpenses(_ context.Context, expenses []core.Expense) error {
	f.expenseBatches = append(f.expenseBatches, len(expenses))
	f.expenses = append(f.expenses, expenses...)
	return nil
}

func (f *fakeStore) InsertRevenues(_ context.Context, revenues []core.Revenue) error {
	f.revenues = append(f.revenues, revenues...)
	return nil
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2025-09-01", "2025-09-01", false},
		{"09/01/2025", "2025-09-01", false},
		{"09-01-2025", "2025-09-01", false},
		{"2025/09/01", "2025-09-01", false},
		{" 2025-09-01 ", "2025-09-01", false},
		{"September 1, 2025", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestImportSeasons(t *testing.T) {
	csv := `name,season_type,year,start_date,end_date,is_active,organization_id
Fall 2025,fall,2025,2025-09-01,2025-11-30,true,org1
Spring 2026,spring,2026,03/01/2026,05/31/2026,false,org1
`
	store := &fakeStore{}
	res, err := New(store, 500).ImportSeasons(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportSeasons: %v", err)
	}

	if res.Created != 2 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Imported 2 seasons" {
		t.Errorf("Message = %q", res.Message)
	}
	if store.seasons[0].Type != core.Fall || store.seasons[0].Year != 2025 {
		t.Errorf("season 1 = %+v", store.seasons[0])
	}
	if store.seasons[1].StartDate.String() != "2026-03-01" {
		t.Errorf("slash date parsed as %s", store.seasons[1].StartDate)
	}
	if store.seasons[1].IsActive {
		t.Error("is_active=false ignored")
	}
}

func TestImportSeasonsRowErrors(t *testing.T) {
	csv := `name,season_type,year,start_date,end_date
Good Season,fall,2025,2025-09-01,2025-11-30
Bad Dates,fall,2025,soon,later
`
	store := &fakeStore{}
	res, err := New(store, 500).ImportSeasons(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportSeasons: %v", err)
	}

	if res.Created != 1 {
		t.Errorf("Created = %d, want 1", res.Created)
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Row 3:") {
		t.Errorf("Errors = %v, want one error on row 3", res.Errors)
	}
}

func TestImportTeams(t *testing.T) {
	csv := `name,age_group,sport,gender,max_players,registration_fee,season_id
U10 Hawks,U10,soccer,coed,,150.00,s1
U12 Eagles,U12,soccer,coed,18,175.50,s1
No Season,U8,soccer,coed,20,100.00,
`
	store := &fakeStore{}
	res, err := New(store, 500).ImportTeams(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportTeams: %v", err)
	}

	if res.Created != 2 {
		t.Errorf("Created = %d, want 2", res.Created)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "season_id is required") {
		t.Errorf("Errors = %v", res.Errors)
	}
	if store.teams[0].MaxPlayers != 20 {
		t.Errorf("blank max_players = %d, want default 20", store.teams[0].MaxPlayers)
	}
	if store.teams[0].RegistrationFee.Cents != 15000 {
		t.Errorf("fee = %d, want 15000", store.teams[0].RegistrationFee.Cents)
	}
	if store.teams[1].MaxPlayers != 18 {
		t.Errorf("explicit max_players = %d, want 18", store.teams[1].MaxPlayers)
	}
}

func TestImportTeamsStoreFailure(t *testing.T) {
	csv := `name,season_id
U10 Hawks,s1
`
	store := &fakeStore{createTeamErr: errors.New("season s1 not found")}
	res, err := New(store, 500).ImportTeams(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportTeams: %v", err)
	}
	if res.Created != 0 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(res.Errors[0], "season s1 not found") {
		t.Errorf("error = %q", res.Errors[0])
	}
}

func TestImportExpenses(t *testing.T) {
	csv := `season_id,team_id,category,description,amount,vendor,receipt_number,payment_date,notes
s1,t1,equipment,Practice balls,45.00,SportMart,R-100,2025-09-15,
s1,,mystery_stuff,Shared insurance,500.00,,,2025-09-01,annual policy
s1,t1,travel,Bad amount,abc,,,2025-09-20,
s1,t1,travel,,10.00,,,2025-09-20,
`
	store := &fakeStore{}
	res, err := New(store, 500).ImportExpenses(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportExpenses: %v", err)
	}

	if res.Created != 2 {
		t.Errorf("Created = %d, want 2", res.Created)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "Row 4:") || !strings.Contains(res.Errors[0], "invalid amount") {
		t.Errorf("first error = %q", res.Errors[0])
	}
	if !strings.HasPrefix(res.Errors[1], "Row 5:") {
		t.Errorf("second error = %q", res.Errors[1])
	}

	// Unknown categories land in "other" rather than failing the row.
	if store.expenses[1].Category != core.ExpenseOther {
		t.Errorf("unknown category = %q, want other", store.expenses[1].Category)
	}
	if store.expenses[0].Amount.Cents != 4500 {
		t.Errorf("amount = %d, want 4500", store.expenses[0].Amount.Cents)
	}
}

func TestImportExpensesBatching(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("season_id,category,description,amount,payment_date\n")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&sb, "s1,equipment,Item %d,10.00,2025-09-01\n", i)
	}

	store := &fakeStore{}
	res, err := New(store, 3).ImportExpenses(context.Background(), strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ImportExpenses: %v", err)
	}

	if res.Created != 7 {
		t.Errorf("Created = %d, want 7", res.Created)
	}
	want := []int{3, 3, 1}
	if len(store.expenseBatches) != len(want) {
		t.Fatalf("batches = %v, want %v", store.expenseBatches, want)
	}
	for i, n := range want {
		if store.expenseBatches[i] != n {
			t.Errorf("batch %d size = %d, want %d", i, store.expenseBatches[i], n)
		}
	}
}

func TestImportRevenues(t *testing.T) {
	csv := `season_id,team_id,category,description,amount,source,payment_date,notes
s1,t1,registration_fees,Fall registration,"1500,00",families,2025-09-01,
s1,,sponsorships,Sponsor banner,800.00,Local Bank,2025-09-10,
`
	// The first amount uses a comma decimal separator, quoted so the CSV
	// reader keeps it as one field.
	store := &fakeStore{}
	res, err := New(store, 500).ImportRevenues(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportRevenues: %v", err)
	}

	if res.Created != 2 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
	if store.revenues[0].Category != core.RevenueRegistrationFees {
		t.Errorf("category = %q", store.revenues[0].Category)
	}
	if store.revenues[0].Amount.Cents != 150000 {
		t.Errorf("comma amount = %d, want 150000", store.revenues[0].Amount.Cents)
	}
	if store.revenues[1].TeamID != "" {
		t.Errorf("season-wide revenue got team %q", store.revenues[1].TeamID)
	}
	if res.Message != "Imported 2 revenues" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestTemplates(t *testing.T) {
	templates := Templates()
	for _, entity := range []string{"seasons", "teams", "expenses", "revenues"} {
		header, ok := templates[entity]
		if !ok {
			t.Errorf("missing template for %s", entity)
			continue
		}
		if !strings.HasSuffix(header, "\n") {
			t.Errorf("%s template not newline terminated", entity)
		}
	}
	if !strings.Contains(templates["expenses"], "receipt_number") {
		t.Errorf("expenses template = %q", templates["expenses"])
	}
}
