package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"clubledger/internal/core"
)

// Store is the storage surface the importer needs.
type Store interface {
	CreateSeason(ctx context.Context, s core.Season) (core.Season, error)
	CreateTeam(ctx context.Context, t core.Team) (core.Team, error)
	InsertExpenses(ctx context.Context, expenses []core.Expense) error
	InsertRevenues(ctx context.Context, revenues []core.Revenue) error
}

// Result summarizes one import run. Errors carry the 1-based CSV row number;
// the first data row is row 2.
type Result struct {
	Message string   `json:"message"`
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// Importer loads seasons, teams, expenses, and revenues from CSV files.
type Importer struct {
	store     Store
	batchSize int
}

func New(store Store, batchSize int) *Importer {
	if batchSize < 1 {
		batchSize = 500
	}
	return &Importer{store: store, batchSize: batchSize}
}

var dateFormats = []string{"2006-01-02", "01/02/2006", "01-02-2006", "2006/01/02"}

// ParseDate tries each accepted CSV date format in order.
func ParseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: t}, nil
		}
	}
	return core.Date{}, fmt.Errorf("unable to parse date: %s", s)
}

// Templates returns the CSV header line for each importable entity.
func Templates() map[string]string {
	return map[string]string{
		"seasons":  "name,season_type,year,start_date,end_date,is_active,organization_id\n",
		"teams":    "name,age_group,sport,gender,max_players,registration_fee,season_id,coach_id\n",
		"expenses": "season_id,team_id,category,description,amount,vendor,receipt_number,payment_date,notes\n",
		"revenues": "season_id,team_id,category,description,amount,source,payment_date,notes\n",
	}
}

// row is one CSV record keyed by header column.
type row map[string]string

func (r row) get(key string) string {
	return strings.TrimSpace(r[key])
}

func (r row) getBool(key string, def bool) bool {
	v := strings.ToLower(r.get(key))
	if v == "" {
		return def
	}
	return v == "true"
}

func (r row) getInt(key string, def int) (int, error) {
	v := r.get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// readRows parses the CSV header and streams records to fn with their row
// number. Malformed CSV lines abort the whole import.
func readRows(src io.Reader, fn func(rowNum int, rec row)) error {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read CSV row %d: %w", rowNum, err)
		}
		rec := make(row, len(header))
		for i, name := range header {
			if i < len(record) {
				rec[name] = record[i]
			}
		}
		fn(rowNum, rec)
	}
}

// ImportSeasons creates one season per CSV row.
func (im *Importer) ImportSeasons(ctx context.Context, src io.Reader) (Result, error) {
	var res Result

	err := readRows(src, func(rowNum int, rec row) {
		seasonType := core.SeasonType(strings.ToLower(rec.get("season_type")))
		if rec.get("season_type") == "" {
			seasonType = core.Fall
		}
		year, err := rec.getInt("year", time.Now().Year())
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: invalid year: %v", rowNum, err))
			return
		}
		start, err := ParseDate(rec.get("start_date"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		end, err := ParseDate(rec.get("end_date"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		season := core.Season{
			OrganizationID: rec.get("organization_id"),
			Name:           rec.get("name"),
			Type:           seasonType,
			Year:           year,
			StartDate:      start,
			EndDate:        end,
			IsActive:       rec.getBool("is_active", true),
		}
		if _, err := im.store.CreateSeason(ctx, season); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		res.Created++
	})
	if err != nil {
		return Result{}, err
	}

	res.Message = fmt.Sprintf("Imported %d seasons", res.Created)
	return res, nil
}

// ImportTeams creates one team per CSV row. Every row must reference an
// existing season.
func (im *Importer) ImportTeams(ctx context.Context, src io.Reader) (Result, error) {
	var res Result

	err := readRows(src, func(rowNum int, rec row) {
		seasonID := rec.get("season_id")
		if seasonID == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: season_id is required", rowNum))
			return
		}
		maxPlayers, err := rec.getInt("max_players", 20)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: invalid max_players: %v", rowNum, err))
			return
		}
		fee := core.Money{}
		if raw := rec.get("registration_fee"); raw != "" {
			fee, err = core.ParseAmount(raw)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: invalid registration_fee: %v", rowNum, err))
				return
			}
		}
		team := core.Team{
			SeasonID:        seasonID,
			Name:            rec.get("name"),
			AgeGroup:        rec.get("age_group"),
			Sport:           rec.get("sport"),
			Gender:          rec.get("gender"),
			CoachID:         rec.get("coach_id"),
			MaxPlayers:      maxPlayers,
			RegistrationFee: fee,
		}
		if _, err := im.store.CreateTeam(ctx, team); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		res.Created++
	})
	if err != nil {
		return Result{}, err
	}

	res.Message = fmt.Sprintf("Imported %d teams", res.Created)
	return res, nil
}

// ImportExpenses bulk-inserts expenses in batches. Unknown categories fall
// back to "other".
func (im *Importer) ImportExpenses(ctx context.Context, src io.Reader) (Result, error) {
	var res Result
	var batch []core.Expense

	flush := func() error {
		if err := im.store.InsertExpenses(ctx, batch); err != nil {
			return err
		}
		res.Created += len(batch)
		batch = batch[:0]
		return nil
	}

	err := readRows(src, func(rowNum int, rec row) {
		category, _ := core.ParseExpenseCategory(rec.get("category"))
		amount, err := core.ParseAmount(rec.get("amount"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: invalid amount: %v", rowNum, err))
			return
		}
		date, err := ParseDate(rec.get("payment_date"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		expense := core.Expense{
			SeasonID:      rec.get("season_id"),
			TeamID:        rec.get("team_id"),
			Category:      category,
			Description:   rec.get("description"),
			Amount:        amount,
			Vendor:        rec.get("vendor"),
			ReceiptNumber: rec.get("receipt_number"),
			PaymentDate:   date,
			Notes:         rec.get("notes"),
		}
		if err := expense.Validate(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		batch = append(batch, expense)
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				batch = batch[:0]
			}
		}
	})
	if err != nil {
		return Result{}, err
	}
	if err := flush(); err != nil {
		return Result{}, err
	}

	res.Message = fmt.Sprintf("Imported %d expenses", res.Created)
	return res, nil
}

// ImportRevenues is the revenue counterpart of ImportExpenses.
func (im *Importer) ImportRevenues(ctx context.Context, src io.Reader) (Result, error) {
	var res Result
	var batch []core.Revenue

	flush := func() error {
		if err := im.store.InsertRevenues(ctx, batch); err != nil {
			return err
		}
		res.Created += len(batch)
		batch = batch[:0]
		return nil
	}

	err := readRows(src, func(rowNum int, rec row) {
		category, _ := core.ParseRevenueCategory(rec.get("category"))
		amount, err := core.ParseAmount(rec.get("amount"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: invalid amount: %v", rowNum, err))
			return
		}
		date, err := ParseDate(rec.get("payment_date"))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		revenue := core.Revenue{
			SeasonID:    rec.get("season_id"),
			TeamID:      rec.get("team_id"),
			Category:    category,
			Description: rec.get("description"),
			Amount:      amount,
			Source:      rec.get("source"),
			PaymentDate: date,
			Notes:       rec.get("notes"),
		}
		if err := revenue.Validate(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			return
		}
		batch = append(batch, revenue)
		if len(batch) >= im.batchSize {
			if err := flush(); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				batch = batch[:0]
			}
		}
	})
	if err != nil {
		return Result{}, err
	}
	if err := flush(); err != nil {
		return Result{}, err
	}

	res.Message = fmt.Sprintf("Imported %d revenues", res.Created)
	return res, nil
}
