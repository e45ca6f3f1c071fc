// Package excel imports student accounts from an .xlsx workbook.
package excel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres/user"
)

// Columns is the header row expected on the first sheet.
var Columns = []string{"Name", "Email", "Student ID", "Class", "Phone", "Password"}

const internalReason = "could not be saved, try again later"

var phoneRegex = regexp.MustCompile(`^\+?\d+$`)

type StudentRow struct {
	Row       int
	Name      string
	Email     string
	StudentID string
	Class     string
	Phone     string
	Password  string
}

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Result struct {
	Created    int        `json:"created"`
	FailedRows []RowError `json:"failed_rows"`
}

// ReadStudents parses the first sheet of the workbook. Rows that cannot
// become an account are reported by their 1 based row number; blank rows
// are skipped.
func ReadStudents(r io.Reader) ([]StudentRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheet")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading rows")
	}

	var (
		students   []StudentRow
		failed     []RowError
		emails     = make(map[string]int)
		studentIDs = make(map[string]int)
	)

	for i, row := range rows {
		if i == 0 {
			continue
		}
		line := i + 1

		cells := make([]string, len(Columns))
		blank := true
		for j := range cells {
			if j < len(row) {
				cells[j] = clean(row[j])
			}
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		s := StudentRow{
			Row:       line,
			Name:      cells[0],
			Email:     strings.ToLower(cells[1]),
			StudentID: cells[2],
			Class:     cells[3],
			Phone:     cells[4],
			Password:  cells[5],
		}

		if reason := checkRow(s); reason != "" {
			failed = append(failed, RowError{Row: line, Reason: reason})
			continue
		}

		if prev, ok := emails[s.Email]; ok {
			failed = append(failed, RowError{Row: line, Reason: fmt.Sprintf("email repeats row %d", prev)})
			continue
		}
		if prev, ok := studentIDs[s.StudentID]; ok {
			failed = append(failed, RowError{Row: line, Reason: fmt.Sprintf("student id repeats row %d", prev)})
			continue
		}

		emails[s.Email] = line
		studentIDs[s.StudentID] = line
		students = append(students, s)
	}

	return students, failed, nil
}

func checkRow(s StudentRow) string {
	if s.Name == "" || s.Email == "" || s.StudentID == "" || s.Class == "" || s.Password == "" {
		return "name, email, student id, class and password are required"
	}
	if !isHalfWidth(s.Email) || !isHalfWidth(s.StudentID) || !isHalfWidth(s.Password) {
		return "email, student id and password must use half width characters"
	}
	if s.Phone != "" && !phoneRegex.MatchString(s.Phone) {
		return "phone must contain digits only"
	}
	return ""
}

// clean normalizes a cell to NFC and trims it.
func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// isHalfWidth reports whether s holds no full width forms.
func isHalfWidth(s string) bool {
	for _, r := range s {
		if r >= '\uFF01' && r <= '\uFF60' || r >= '\uFFE0' && r <= '\uFFEF' {
			return false
		}
	}
	return true
}

// Creator creates accounts with the usual validation.
type Creator interface {
	Create(ctx context.Context, request user.CreateRequest) (entity.User, error)
}

type Importer struct {
	users Creator
	log   *zap.Logger
}

func NewImporter(users Creator, log *zap.Logger) *Importer {
	return &Importer{users: users, log: log}
}

// Import creates a student for every valid row. A row that fails does not
// stop the others.
func (i Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	rows, failed, err := ReadStudents(r)
	if err != nil {
		return Result{}, err
	}

	result := Result{FailedRows: failed}
	role := string(entity.RoleStudent)

	for _, row := range rows {
		row := row
		req := user.CreateRequest{
			Name:      &row.Name,
			Email:     &row.Email,
			Password:  &row.Password,
			Role:      &role,
			StudentID: &row.StudentID,
			Class:     &row.Class,
		}
		if row.Phone != "" {
			req.Phone = &row.Phone
		}

		if _, err := i.users.Create(ctx, req); err != nil {
			result.FailedRows = append(result.FailedRows, RowError{Row: row.Row, Reason: i.reason(row.Row, err)})
			continue
		}
		result.Created++
	}

	if result.FailedRows == nil {
		result.FailedRows = []RowError{}
	}

	i.log.Info("students imported", zap.Int("created", result.Created), zap.Int("failed", len(result.FailedRows)))

	return result, nil
}

// reason reports client errors as they are. Server errors are logged and
// replaced by a generic text.
func (i Importer) reason(row int, err error) string {
	if status, ok := web.StatusOf(err); ok && status < http.StatusInternalServerError {
		return err.Error()
	}

	i.log.Error("importing student row", zap.Int("row", row), zap.Error(err))

	return internalReason
}
