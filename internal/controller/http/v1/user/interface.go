package user

import (
	"context"
	"io"

	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres/user"
	"school-attendance/backend/internal/service/excel"
)

type User interface {
	GetList(ctx context.Context, filter user.Filter) ([]entity.User, int, error)
	GetById(ctx context.Context, id int) (entity.User, error)
	Create(ctx context.Context, request user.CreateRequest) (entity.User, error)
	UpdateColumns(ctx context.Context, request user.UpdateRequest) (entity.User, error)
	Delete(ctx context.Context, id int) error
	Classes(ctx context.Context) ([]string, error)
}

type Attendance interface {
	QueryRecords(ctx context.Context, filter entity.RecordFilter) ([]entity.Attendance, error)
	RecentDetails(ctx context.Context, userID, limit int) ([]entity.AttendanceDetail, error)
}

type Importer interface {
	Import(ctx context.Context, r io.Reader) (excel.Result, error)
}
