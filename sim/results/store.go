package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/epinet-sim/epinet/sim"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Store keeps simulation reports in a SQLite database.
type Store struct {
	db *sql.DB
}

// RunMeta is stored alongside a report.
type RunMeta struct {
	Label  string
	Config *sim.Config // optional; stored as YAML
}

// RunSummary is one row of ListRuns.
type RunSummary struct {
	ID             string
	CreatedAt      time.Time
	Label          string
	Seed           int64
	PopulationSize int
	Days           int
	Finished       bool
	PeakActive     int
	TotalExposures int
	CaseFatality   sim.Ratio
}

// Open opens (creating if needed) the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores the report and its day history in one transaction, assigns
// a new run id to report.RunID and returns it.
func (s *Store) SaveRun(ctx context.Context, report *sim.Report, meta RunMeta) (string, error) {
	var cfgText sql.NullString
	if meta.Config != nil {
		data, err := yaml.Marshal(meta.Config)
		if err != nil {
			return "", fmt.Errorf("failed to encode config: %w", err)
		}
		cfgText = sql.NullString{String: string(data), Valid: true}
	}

	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, label, seed, population_size, days, finished,
			peak_active, peak_day, confirmed_cases, total_exposures,
			case_fatality, population_fatality, recovery, never_infected, config)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), meta.Label, report.Seed, report.PopulationSize,
		report.Days, report.Finished, report.PeakActive, report.PeakDay, report.ConfirmedCases,
		report.TotalExposures, nullRatio(report.CaseFatality), nullRatio(report.PopulationFatality),
		nullRatio(report.Recovery), nullRatio(report.NeverInfected), cfgText)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_days (run_id, day, susceptible, exposed, infectious, quarantined, recovered, dead, confirmed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare day insert: %w", err)
	}
	defer stmt.Close()

	days := append([]sim.DayCounts{report.Initial}, report.History...)
	for _, c := range days {
		if _, err := stmt.ExecContext(ctx, id, c.Day, c.Susceptible, c.Exposed, c.Infectious,
			c.Quarantined, c.Recovered, c.Dead, c.Confirmed); err != nil {
			return "", fmt.Errorf("failed to insert day %d: %w", c.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	report.RunID = id
	return id, nil
}

// LoadRun reads a stored report back, history included.
func (s *Store) LoadRun(ctx context.Context, id string) (*sim.Report, error) {
	r := &sim.Report{RunID: id}
	var cf, pf, rec, ni sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT seed, population_size, days, finished, peak_active, peak_day, confirmed_cases,
			total_exposures, case_fatality, population_fatality, recovery, never_infected
		FROM runs WHERE id = ?`, id).Scan(
		&r.Seed, &r.PopulationSize, &r.Days, &r.Finished, &r.PeakActive, &r.PeakDay,
		&r.ConfirmedCases, &r.TotalExposures, &cf, &pf, &rec, &ni)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	r.CaseFatality = ratioFromNull(cf)
	r.PopulationFatality = ratioFromNull(pf)
	r.Recovery = ratioFromNull(rec)
	r.NeverInfected = ratioFromNull(ni)

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, susceptible, exposed, infectious, quarantined, recovered, dead, confirmed
		FROM run_days WHERE run_id = ? ORDER BY day`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of run %s: %w", id, err)
	}
	defer rows.Close()

	r.History = make([]sim.DayCounts, 0, r.Days)
	first := true
	for rows.Next() {
		var c sim.DayCounts
		if err := rows.Scan(&c.Day, &c.Susceptible, &c.Exposed, &c.Infectious,
			&c.Quarantined, &c.Recovered, &c.Dead, &c.Confirmed); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		if first {
			r.Initial = c
			first = false
			continue
		}
		r.History = append(r.History, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return r, nil
}

// LoadConfig returns the config stored with a run, or nil if none was saved.
func (s *Store) LoadConfig(ctx context.Context, id string) (*sim.Config, error) {
	var text sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT config FROM runs WHERE id = ?`, id).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config of run %s: %w", id, err)
	}
	if !text.Valid {
		return nil, nil
	}
	var cfg sim.Config
	if err := yaml.Unmarshal([]byte(text.String), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config of run %s: %w", id, err)
	}
	return &cfg, nil
}

// ListRuns returns every stored run, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, label, seed, population_size, days, finished,
			peak_active, total_exposures, case_fatality
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var created string
		var label sql.NullString
		var cf sql.NullFloat64
		if err := rows.Scan(&rs.ID, &created, &label, &rs.Seed, &rs.PopulationSize, &rs.Days,
			&rs.Finished, &rs.PeakActive, &rs.TotalExposures, &cf); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if rs.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("failed to parse created_at of run %s: %w", rs.ID, err)
		}
		rs.Label = label.String
		rs.CaseFatality = ratioFromNull(cf)
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run and its history.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func nullRatio(r sim.Ratio) sql.NullFloat64 {
	if !r.Defined() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: float64(r), Valid: true}
}

func ratioFromNull(v sql.NullFloat64) sim.Ratio {
	if !v.Valid {
		return sim.Ratio(math.NaN())
	}
	return sim.Ratio(v.Float64)
}
