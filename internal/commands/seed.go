package commands

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres/user"
)

// AdminCreator creates accounts.
type AdminCreator interface {
	Create(ctx context.Context, request user.CreateRequest) (entity.User, error)
}

// SeedAdmin creates the first administrator. An existing account with the
// same email is left untouched.
func SeedAdmin(ctx context.Context, users AdminCreator, log *zap.Logger, name, email, password string) error {
	role := string(entity.RoleAdmin)

	admin, err := users.Create(ctx, user.CreateRequest{
		Name:     &name,
		Email:    &email,
		Password: &password,
		Role:     &role,
	})
	if err != nil {
		if status, ok := web.StatusOf(err); ok && status == http.StatusConflict {
			log.Info("admin already exists", zap.String("email", email))
			return nil
		}
		return errors.Wrap(err, "seeding admin")
	}

	log.Info("admin created", zap.Int("id", admin.ID), zap.String("email", admin.Email))

	return nil
}
