// Package ephemeris persists named sets of state samples in SQLite.
package ephemeris

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ChristopherRabotin/astro"
	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no ephemeris has the requested name.
var ErrNotFound = errors.New("ephemeris not found")

// Store keeps ephemerides in a SQLite database in WAL mode.
type Store struct {
	db     *sql.DB
	logger log.Logger
}

// Open opens (or creates) the database and initializes the schema.
func Open(path string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, logger: log.With(logger, "subsys", "ephemeris")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ephemerides (
		name       TEXT PRIMARY KEY,
		frame      TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		name     TEXT NOT NULL,
		epoch_ns INTEGER NOT NULL,
		x  REAL NOT NULL, y  REAL NOT NULL, z  REAL NOT NULL,
		vx REAL NOT NULL, vy REAL NOT NULL, vz REAL NOT NULL,
		PRIMARY KEY (name, epoch_ns)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the ephemeris called name with the states, stored in meters and
// meters per second. All states must share one frame.
func (s *Store) Save(name string, states []astro.State) error {
	if len(states) == 0 {
		return fmt.Errorf("%w: no states to save", astro.ErrInvalidArgument)
	}
	f := states[0].Frame()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM samples WHERE name = ?`, name); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO ephemerides (name, frame, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET frame = excluded.frame, created_at = excluded.created_at`,
		name, f.String(), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO samples (name, epoch_ns, x, y, z, vx, vy, vz) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for n, st := range states {
		if st.Frame() != f {
			return fmt.Errorf("state #%d: %w", n, astro.ErrFrameMismatch)
		}
		dt, err := st.Instant()
		if err != nil {
			return fmt.Errorf("state #%d: %w", n, err)
		}
		r, v, err := inSI(st)
		if err != nil {
			return fmt.Errorf("state #%d: %w", n, err)
		}
		if _, err := stmt.Exec(name, dt.UnixNano(), r[0], r[1], r[2], v[0], v[1], v[2]); err != nil {
			return fmt.Errorf("state #%d: %w", n, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	level.Debug(s.logger).Log("msg", "saved", "name", name, "states", len(states), "frame", f)
	return nil
}

func inSI(st astro.State) (r, v [3]float64, err error) {
	pos, err := st.Position()
	if err != nil {
		return
	}
	vel, err := st.Velocity()
	if err != nil {
		return
	}
	if pos, err = pos.InUnit(astro.Meter); err != nil {
		return
	}
	if vel, err = vel.InUnit(astro.MeterPerSecond); err != nil {
		return
	}
	return pos.Coordinates(), vel.Coordinates(), nil
}

// Load returns the states of the ephemeris in chronological order.
func (s *Store) Load(name string) ([]astro.State, error) {
	var frameName string
	err := s.db.QueryRow(`SELECT frame FROM ephemerides WHERE name = ?`, name).Scan(&frameName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	f, err := frame.FromString(frameName)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT epoch_ns, x, y, z, vx, vy, vz FROM samples WHERE name = ? ORDER BY epoch_ns`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var states []astro.State
	for rows.Next() {
		var (
			ns   int64
			r, v [3]float64
		)
		if err := rows.Scan(&ns, &r[0], &r[1], &r[2], &v[0], &v[1], &v[2]); err != nil {
			return nil, err
		}
		st, err := astro.NewState(time.Unix(0, ns).UTC(), astro.Meters(r, f), astro.MetersPerSecond(v, f))
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	level.Debug(s.logger).Log("msg", "loaded", "name", name, "states", len(states))
	return states, nil
}

// Trajectory returns a tabulated trajectory over the stored ephemeris.
func (s *Store) Trajectory(name string) (astro.Trajectory, error) {
	states, err := s.Load(name)
	if err != nil {
		return astro.Trajectory{}, err
	}
	return astro.TrajectoryFromStates(states)
}

// Names returns the stored ephemeris names in alphabetical order.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM ephemerides ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the ephemeris.
func (s *Store) Delete(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.Exec(`DELETE FROM ephemerides WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if _, err := tx.Exec(`DELETE FROM samples WHERE name = ?`, name); err != nil {
		return err
	}
	return tx.Commit()
}
