package schoolClass

import (
	"context"

	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres/schoolClass"
)

type SchoolClass interface {
	GetList(ctx context.Context, filter schoolClass.Filter) ([]entity.SchoolClass, int, error)
	GetDetailById(ctx context.Context, id int) (entity.SchoolClass, error)
	Create(ctx context.Context, request schoolClass.CreateRequest) (entity.SchoolClass, error)
	UpdateColumns(ctx context.Context, request schoolClass.UpdateRequest) (entity.SchoolClass, error)
	Delete(ctx context.Context, id int) error
}
