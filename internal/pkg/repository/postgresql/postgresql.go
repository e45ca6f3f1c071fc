// Package postgresql opens the bun connection shared by every repository and
// carries the helpers they have in common.
package postgresql

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/repository/postgres"
)

type Config struct {
	User       string
	Password   string
	Host       string
	Port       string
	Name       string
	DisableTLS bool
	Debug      bool
}

type Database struct {
	*bun.DB
}

// New opens the database and checks it answers.
func New(ctx context.Context, cfg Config) (*Database, error) {
	connector := pgdriver.NewConnector(
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithInsecure(cfg.DisableTLS),
		pgdriver.WithTimeout(10*time.Second),
	)

	db := bun.NewDB(sql.OpenDB(connector), pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}

	return &Database{DB: db}, nil
}

// CheckClaims returns the caller's claims, refusing callers whose role is
// listed in forbidden.
func (d Database) CheckClaims(ctx context.Context, forbidden ...string) (auth.Claims, error) {
	claims, ok := auth.GetClaims(ctx)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	for _, role := range forbidden {
		if claims.Role == role {
			return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
		}
	}

	return claims, nil
}

// ValidateStruct checks that the listed fields of s are set.
func (d Database) ValidateStruct(s interface{}, fields ...string) error {
	return web.CheckRequired(s, fields...)
}

// DeleteRow removes the row id from table.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	res, err := d.NewDelete().TableExpr("?", bun.Ident(table)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting %s", table), http.StatusInternalServerError)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}
