// Package attendance holds the rules for check in, check out and teacher
// marks.
package attendance

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/pkg/clock"
)

// Store persists attendance records.
type Store interface {
	UpsertRecord(ctx context.Context, key entity.AttendanceKey, mutate entity.AttendanceMutation) (entity.Attendance, bool, error)
}

// Users looks up accounts.
type Users interface {
	GetById(ctx context.Context, id int) (entity.User, error)
}

type Service struct {
	records Store
	users   Users
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(records Store, users Users, clk clock.Clock, log *zap.Logger) *Service {
	return &Service{
		records: records,
		users:   users,
		clock:   clk,
		log:     log,
	}
}

// CheckIn records the student's arrival today. Calling it again the same day
// returns the existing record unchanged.
func (s Service) CheckIn(ctx context.Context, caller entity.Identity) (entity.Attendance, error) {
	if caller.Role != entity.RoleStudent {
		return entity.Attendance{}, requestError(ErrUnauthorized)
	}

	now := s.clock.Now()
	key := entity.AttendanceKey{UserID: caller.UserID, Date: entity.DateOf(now)}

	rec, created, err := s.records.UpsertRecord(ctx, key, ApplyCheckIn(entity.ClockOf(now)))
	if err != nil {
		s.log.Error("check in failed", zap.Int("user_id", caller.UserID), zap.Error(err))
		return entity.Attendance{}, requestError(errors.Wrap(err, "checking in"))
	}

	s.log.Info("check in",
		zap.Int("user_id", caller.UserID),
		zap.Bool("created", created),
		zap.Stringp("check_in", rec.CheckIn))

	return rec, nil
}

// CheckOut records the student's departure today.
func (s Service) CheckOut(ctx context.Context, caller entity.Identity) (entity.Attendance, error) {
	if caller.Role != entity.RoleStudent {
		return entity.Attendance{}, requestError(ErrUnauthorized)
	}

	now := s.clock.Now()
	key := entity.AttendanceKey{UserID: caller.UserID, Date: entity.DateOf(now)}

	rec, _, err := s.records.UpsertRecord(ctx, key, ApplyCheckOut(entity.ClockOf(now)))
	if err != nil {
		if !errors.Is(err, ErrNoCheckInYet) && !errors.Is(err, ErrAlreadyCheckedOut) {
			s.log.Error("check out failed", zap.Int("user_id", caller.UserID), zap.Error(err))
		}
		return entity.Attendance{}, requestError(err)
	}

	return rec, nil
}

// Mark sets the status and notes of a student's day on behalf of a teacher
// or admin.
func (s Service) Mark(ctx context.Context, caller entity.Identity, req MarkRequest) (entity.Attendance, error) {
	if caller.Role != entity.RoleTeacher && caller.Role != entity.RoleAdmin {
		return entity.Attendance{}, requestError(ErrUnauthorized)
	}

	m, err := ValidateMark(req)
	if err != nil {
		return entity.Attendance{}, requestError(err)
	}

	target, err := s.users.GetById(ctx, m.UserID)
	if err != nil {
		return entity.Attendance{}, requestError(err)
	}
	if !target.IsStudent() {
		return entity.Attendance{}, requestError(invalid("user_id", "must reference a student"))
	}

	if today := entity.DateOf(s.clock.Now()); !m.Date.Equal(today) {
		s.log.Info("marking another day",
			zap.Int("marked_by", caller.UserID),
			zap.Int("user_id", m.UserID),
			zap.String("date", m.Date.Format(entity.DateLayout)))
	}

	key := entity.AttendanceKey{UserID: m.UserID, Date: m.Date}

	rec, _, err := s.records.UpsertRecord(ctx, key, ApplyMark(m, caller.UserID))
	if err != nil {
		s.log.Error("mark failed", zap.Int("user_id", m.UserID), zap.Error(err))
		return entity.Attendance{}, requestError(errors.Wrap(err, "marking attendance"))
	}

	return rec, nil
}
