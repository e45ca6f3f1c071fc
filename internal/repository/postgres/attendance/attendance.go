package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/pkg/repository/postgresql"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// FindRecord returns the record of the user on date, or nil when there is none.
func (r Repository) FindRecord(ctx context.Context, userID int, date time.Time) (*entity.Attendance, error) {
	var detail entity.Attendance

	err := r.NewSelect().Model(&detail).
		Where("a.user_id = ? AND a.date = ?", userID, dateParam(date)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}

	return &detail, nil
}

// UpsertRecord applies mutate to the record of key, creating it with the
// default status first when absent. The insert, the row lock, the mutation
// and the write happen in one transaction, so concurrent calls on the same
// key are serialized and a failed mutation leaves nothing behind.
func (r Repository) UpsertRecord(ctx context.Context, key entity.AttendanceKey, mutate entity.AttendanceMutation) (entity.Attendance, bool, error) {
	var (
		detail  entity.Attendance
		created bool
	)

	date := entity.DateOf(key.Date)

	err := r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()

		placeholder := entity.Attendance{
			UserID:    key.UserID,
			Date:      entity.DayOf(date),
			Status:    entity.StatusUnexcused,
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := tx.NewInsert().Model(&placeholder).
			On("CONFLICT (user_id, date) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "inserting attendance")
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created = true
		}

		err = tx.NewSelect().Model(&detail).
			Where("a.user_id = ? AND a.date = ?", key.UserID, dateParam(date)).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return errors.Wrap(err, "locking attendance")
		}

		changed, err := mutate(&detail, created)
		if err != nil {
			return err
		}
		if !changed && !created {
			return nil
		}

		detail.UpdatedAt = time.Now()

		_, err = tx.NewUpdate().Model(&detail).
			Column("status", "check_in", "check_out", "notes", "marked_by", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "updating attendance")
		}

		return nil
	})
	if err != nil {
		return entity.Attendance{}, false, err
	}

	return detail, created, nil
}

// QueryRecords returns the records matching filter, oldest first.
func (r Repository) QueryRecords(ctx context.Context, filter entity.RecordFilter) ([]entity.Attendance, error) {
	if filter.UserIDs != nil && len(filter.UserIDs) == 0 {
		return []entity.Attendance{}, nil
	}

	var list []entity.Attendance

	q := r.NewSelect().Model(&list)
	applyFilter(q, filter, false)

	if err := q.Order("a.date ASC", "a.id ASC").Scan(ctx); err != nil {
		return nil, errors.Wrap(err, "selecting attendance list")
	}

	return list, nil
}

// ListRecords returns one page of records joined with their student and
// marker, newest first, and the number of matching records.
func (r Repository) ListRecords(ctx context.Context, filter entity.RecordFilter, page entity.Page) ([]entity.AttendanceDetail, int, error) {
	if filter.UserIDs != nil && len(filter.UserIDs) == 0 {
		return []entity.AttendanceDetail{}, 0, nil
	}

	list := make([]entity.AttendanceDetail, 0)

	q := r.detailQuery(&list)
	applyFilter(q, filter, true)

	count, err := q.Order("a.date DESC", "a.id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.Wrap(err, "selecting attendance details")
	}

	return list, count, nil
}

// RecentDetails returns the latest limit records of a user with marker names.
func (r Repository) RecentDetails(ctx context.Context, userID, limit int) ([]entity.AttendanceDetail, error) {
	list := make([]entity.AttendanceDetail, 0)

	err := r.detailQuery(&list).
		Where("a.user_id = ?", userID).
		Order("a.date DESC", "a.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "selecting recent attendance")
	}

	return list, nil
}

// CountByStatus counts the records matching filter per status.
func (r Repository) CountByStatus(ctx context.Context, filter entity.RecordFilter) (map[entity.Status]int, error) {
	counts := make(map[entity.Status]int, len(entity.Statuses))
	if filter.UserIDs != nil && len(filter.UserIDs) == 0 {
		return counts, nil
	}

	var rows []statusCount

	q := r.NewSelect().
		TableExpr("attendances AS a").
		ColumnExpr("a.status").
		ColumnExpr("count(*) AS count")
	applyFilter(q, filter, false)

	if err := q.GroupExpr("a.status").Scan(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "counting attendance")
	}

	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r Repository) detailQuery(list *[]entity.AttendanceDetail) *bun.SelectQuery {
	return r.NewSelect().Model(list).
		ColumnExpr("a.*").
		ColumnExpr("u.name AS user_name, u.student_id AS student_number, u.class AS class").
		ColumnExpr("m.name AS marked_by_name").
		Join("JOIN users AS u ON u.id = a.user_id").
		Join("LEFT JOIN users AS m ON m.id = a.marked_by")
}

// applyFilter adds the where clauses of filter to q. Filtering by class
// needs the student row, joined here unless q already joins users as u.
func applyFilter(q *bun.SelectQuery, filter entity.RecordFilter, usersJoined bool) {
	if filter.UserIDs != nil {
		q.Where("a.user_id IN (?)", bun.In(filter.UserIDs))
	}
	if filter.From != nil {
		q.Where("a.date >= ?", dateParam(*filter.From))
	}
	if filter.To != nil {
		q.Where("a.date <= ?", dateParam(*filter.To))
	}
	if filter.Status != nil {
		q.Where("a.status = ?", *filter.Status)
	}
	if filter.Class != nil {
		if !usersJoined {
			q.Join("JOIN users AS u ON u.id = a.user_id")
		}
		q.Where("u.class = ?", *filter.Class)
	}
}

// dateParam renders a calendar date so postgres reads it as a date rather
// than a timestamp in the session zone.
func dateParam(t time.Time) string {
	return t.Format(entity.DateLayout)
}
