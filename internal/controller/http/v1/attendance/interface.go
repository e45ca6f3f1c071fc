package attendance

import (
	"context"

	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/service/attendance"
	"school-attendance/backend/internal/service/dashboard"
)

type Rules interface {
	CheckIn(ctx context.Context, caller entity.Identity) (entity.Attendance, error)
	CheckOut(ctx context.Context, caller entity.Identity) (entity.Attendance, error)
	Mark(ctx context.Context, caller entity.Identity, req attendance.MarkRequest) (entity.Attendance, error)
}

type Dashboard interface {
	View(ctx context.Context, caller entity.Identity, filters dashboard.Filters) (dashboard.View, error)
}
