package commands

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"school-attendance/backend/internal/pkg/repository/postgresql"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('STUDENT', 'TEACHER', 'ADMIN');`,
	},
	{
		Index:       2,
		Description: "CREATE TYPE \"attendance_status\" AS ENUM",
		Query: `
        CREATE TYPE "attendance_status" AS ENUM ('PRESENT', 'EXCUSED_LEAVE', 'SICK', 'UNEXCUSED');`,
	},
	{
		Index:       3,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            name text not null,
            email text not null unique,
            password text not null,
            role user_role not null,
            student_id text unique,
            teacher_id text unique,
            class text,
            phone text,
            created_at timestamptz not null default now(),
            updated_at timestamptz not null default now()
        );
        CREATE INDEX IF NOT EXISTS users_role_class_idx ON users (role, class);`,
	},
	{
		Index:       4,
		Description: "Create table: classes.",
		Query: `
        CREATE TABLE IF NOT EXISTS classes (
            id serial primary key,
            name text not null unique,
            grade text not null,
            major text,
            homeroom_teacher_id int references users(id) on delete set null,
            capacity int not null default 30 check (capacity between 1 and 100),
            created_at timestamptz not null default now(),
            updated_at timestamptz not null default now()
        );`,
	},
	{
		Index:       5,
		Description: "Create table: attendances.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendances (
            id serial primary key,
            user_id int not null references users(id) on delete cascade,
            date date not null,
            status attendance_status not null default 'UNEXCUSED',
            check_in time,
            check_out time,
            notes text check (char_length(notes) <= 500),
            marked_by int references users(id) on delete set null,
            created_at timestamptz not null default now(),
            updated_at timestamptz not null default now(),
            unique (user_id, date),
            check (check_out is null or check_in is not null)
        );
        CREATE INDEX IF NOT EXISTS attendances_date_idx ON attendances (date);
        CREATE INDEX IF NOT EXISTS attendances_status_date_idx ON attendances (status, date);`,
	},
}

// MigrateUP applies every scheme newer than the recorded version. A scheme
// that fails marks the version dirty and is retried on the next run.
func MigrateUP(ctx context.Context, db *postgresql.Database, log *zap.Logger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
		INSERT INTO schema_migrations (version, dirty)
		SELECT 0, false
		WHERE NOT EXISTS (SELECT 1 FROM schema_migrations);`)
	if err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var (
		version int
		dirty   bool
		failure sql.NullString
	)

	err = db.QueryRowContext(ctx, "SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &failure)
	if err != nil {
		return errors.Wrap(err, "reading schema_migrations")
	}

	if dirty {
		log.Warn("retrying dirty migration", zap.Int("version", version), zap.String("error", failure.String))
		version--
	}

	for _, s := range scheme {
		if s.Index <= version {
			continue
		}

		if err = apply(ctx, db, s); err != nil {
			return err
		}

		log.Info("migrated", zap.Int("version", s.Index), zap.String("description", s.Description))
	}

	return nil
}

func apply(ctx context.Context, db *postgresql.Database, s Scheme) error {
	if _, err := db.ExecContext(ctx, s.Query); err != nil {
		_, markErr := db.ExecContext(ctx, "UPDATE schema_migrations SET version = ?, dirty = true, error = ?", s.Index, err.Error())
		if markErr != nil {
			return errors.Wrapf(markErr, "marking version %d dirty", s.Index)
		}
		return errors.Wrapf(err, "migrate version %d", s.Index)
	}

	if _, err := db.ExecContext(ctx, "UPDATE schema_migrations SET version = ?, dirty = false, error = null", s.Index); err != nil {
		return errors.Wrapf(err, "recording version %d", s.Index)
	}

	return nil
}
