package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB represents our database layer
type DB struct {
	*sql.DB
}

// NewDB initializes and connects to the SQLite database
func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Important settings for SQLite concurrency.
	// We want to avoid "database is locked" errors during concurrent writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// InitSchema sets up the required tables
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		schedule TEXT NOT NULL,
		max_participants INTEGER NOT NULL CHECK (max_participants > 0)
	);

	CREATE TABLE IF NOT EXISTS registrations (
		activity_name TEXT NOT NULL,
		email TEXT NOT NULL,
		PRIMARY KEY (activity_name, email),
		FOREIGN KEY (activity_name) REFERENCES activities(name) ON DELETE CASCADE
	);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

type seedActivity struct {
	name            string
	description     string
	schedule        string
	maxParticipants int
	participants    []string
}

// defaultActivities is the seed set inserted on first startup. It is
// consumed only by Seed and never mutated at runtime.
var defaultActivities = []seedActivity{
	{
		name:            "Chess Club",
		description:     "Learn strategies and compete in chess tournaments",
		schedule:        "Fridays, 3:30 PM - 5:00 PM",
		maxParticipants: 12,
		participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
	},
	{
		name:            "Programming Class",
		description:     "Learn programming fundamentals and build software projects",
		schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
		maxParticipants: 20,
		participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
	},
	{
		name:            "Gym Class",
		description:     "Physical education and sports activities",
		schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		maxParticipants: 30,
		participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
	},
	{
		name:            "Soccer Team",
		description:     "Join the school soccer team and compete in matches",
		schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
		maxParticipants: 22,
		participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
	},
	{
		name:            "Basketball Team",
		description:     "Practice and play basketball with the school team",
		schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
		maxParticipants: 15,
		participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
	},
	{
		name:            "Art Club",
		description:     "Explore your creativity through painting and drawing",
		schedule:        "Thursdays, 3:30 PM - 5:00 PM",
		maxParticipants: 15,
		participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
	},
	{
		name:            "Drama Club",
		description:     "Act, direct, and produce plays and performances",
		schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
		maxParticipants: 20,
		participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
	},
	{
		name:            "Math Club",
		description:     "Solve challenging problems and participate in math competitions",
		schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
		maxParticipants: 10,
		participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
	},
	{
		name:            "Debate Team",
		description:     "Develop public speaking and argumentation skills",
		schedule:        "Fridays, 4:00 PM - 5:30 PM",
		maxParticipants: 12,
		participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
	},
}

// Seed inserts the default activities and their participants on an
// empty activities table. Safe to call on every startup: any existing
// activity row skips seeding entirely.
func (db *DB) Seed(ctx context.Context) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count activities: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() // Safe to call even if committed

	for _, a := range defaultActivities {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (name, description, schedule, max_participants)
			VALUES (?, ?, ?, ?)
		`, a.name, a.description, a.schedule, a.maxParticipants)
		if err != nil {
			return fmt.Errorf("failed to seed activity %q: %w", a.name, err)
		}

		for _, email := range a.participants {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO registrations (activity_name, email)
				VALUES (?, ?)
			`, a.name, email)
			if err != nil {
				return fmt.Errorf("failed to seed registration %q/%q: %w", a.name, email, err)
			}
		}
	}

	return tx.Commit()
}

// Activity is the read-side shape of an activity with its participant
// emails, as served by GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ListActivities returns every activity keyed by name. Activities are
// read in name order and participants in email order, so the output is
// deterministic for a given store state.
func (db *DB) ListActivities(ctx context.Context) (map[string]Activity, error) {
	// Collect the activity rows first: with a single connection an open
	// rows cursor would block the nested participant queries.
	rows, err := db.QueryContext(ctx, `
		SELECT name, description, schedule, max_participants
		FROM activities
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}

	type activityRow struct {
		name     string
		activity Activity
	}
	var listed []activityRow
	for rows.Next() {
		var r activityRow
		if err := rows.Scan(&r.name, &r.activity.Description, &r.activity.Schedule, &r.activity.MaxParticipants); err != nil {
			rows.Close()
			return nil, err
		}
		listed = append(listed, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	activities := make(map[string]Activity, len(listed))
	for _, r := range listed {
		participants, err := db.listParticipants(ctx, r.name)
		if err != nil {
			return nil, err
		}
		r.activity.Participants = participants
		activities[r.name] = r.activity
	}
	return activities, nil
}

func (db *DB) listParticipants(ctx context.Context, activity string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT email
		FROM registrations
		WHERE activity_name = ?
		ORDER BY email
	`, activity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Empty participant lists serialize as [] rather than null.
	participants := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		participants = append(participants, email)
	}
	return participants, rows.Err()
}

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student is already signed up")
	ErrNotSignedUp      = errors.New("student is not signed up for this activity")
)

// Signup registers email for the named activity. The existence and
// duplicate checks plus the insert run inside one transaction.
func (db *DB) Signup(ctx context.Context, activity, email string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := activityExists(ctx, tx, activity); err != nil {
		return err
	}

	var one int
	err = tx.QueryRowContext(ctx, `
		SELECT 1
		FROM registrations
		WHERE activity_name = ? AND email = ?
	`, activity, email).Scan(&one)
	if err == nil {
		return ErrAlreadySignedUp
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check registration: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO registrations (activity_name, email)
		VALUES (?, ?)
	`, activity, email)
	if err != nil {
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	return tx.Commit()
}

// Unregister removes email's registration for the named activity.
func (db *DB) Unregister(ctx context.Context, activity, email string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := activityExists(ctx, tx, activity); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM registrations
		WHERE activity_name = ? AND email = ?
	`, activity, email)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotSignedUp
	}

	return tx.Commit()
}

func activityExists(ctx context.Context, tx *sql.Tx, activity string) error {
	var name string
	err := tx.QueryRowContext(ctx, `SELECT name FROM activities WHERE name = ?`, activity).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrActivityNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up activity: %w", err)
	}
	return nil
}
