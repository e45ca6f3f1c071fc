package user

import (
	"net/http"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres/user"
	"school-attendance/backend/internal/service/card"
	"school-attendance/backend/internal/service/statistics"
)

// recentLimit is the number of records shown on a user's detail page.
const recentLimit = 10

// maxImportSize bounds uploaded workbooks.
const maxImportSize = 10 << 20

type Controller struct {
	user       User
	attendance Attendance
	importer   Importer
}

func NewController(user User, attendance Attendance, importer Importer) *Controller {
	return &Controller{user: user, attendance: attendance, importer: importer}
}

func (uc Controller) GetUserList(c *web.Context) error {
	var filter user.Filter

	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if role, ok := c.GetQueryFunc(reflect.String, "role").(*string); ok {
		filter.Role = role
	}
	if class, ok := c.GetQueryFunc(reflect.String, "class").(*string); ok {
		filter.Class = class
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.user.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	classes, err := uc.user.Classes(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
			"classes": classes,
		},
		"status": true,
	}, http.StatusOK)
}

// GetUserDetailById answers with the user, the per status history of its
// attendance and its latest records.
func (uc Controller) GetUserDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	records, err := uc.attendance.QueryRecords(c.Ctx, entity.RecordFilter{UserIDs: []int{id}})
	if err != nil {
		return c.RespondError(err)
	}

	recent, err := uc.attendance.RecentDetails(c.Ctx, id, recentLimit)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"user":               detail,
			"attendance_stats":   statistics.StatusHistory(records),
			"recent_attendances": recent,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CreateUser(c *web.Context) error {
	var request user.CreateRequest

	if err := c.BindFunc(&request, "Name", "Email", "Password", "Role"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.user.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateUserColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request user.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	response, err := uc.user.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) DeleteUser(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.user.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// ImportStudents creates students from the uploaded .xlsx "file".
func (uc Controller) ImportStudents(c *web.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.RespondError(web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "file", Error: "is required"}))
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		return c.RespondError(web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "file", Error: "must be an .xlsx workbook"}))
	}
	if header.Size > maxImportSize {
		return c.RespondError(web.NewFieldsError(http.StatusBadRequest, web.FieldError{Field: "file", Error: "must be at most 10MB"}))
	}

	file, err := header.Open()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest))
	}
	defer file.Close()

	result, err := uc.importer.Import(c.Ctx, file)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
	}

	return c.Respond(map[string]interface{}{
		"data":   result,
		"status": true,
	}, http.StatusOK)
}

// GetQrCode answers with the PNG QR code of a student's card.
func (uc Controller) GetQrCode(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	size := card.DefaultSize
	if s, ok := c.GetQueryFunc(reflect.Int, "size").(*int); ok {
		size = *s
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	png, err := card.StudentQR(detail, size)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "inline; filename="+*detail.StudentID+".png")
	c.Data(http.StatusOK, "image/png", png)

	return nil
}

func (uc Controller) GetClasses(c *web.Context) error {
	classes, err := uc.user.Classes(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   classes,
		"status": true,
	}, http.StatusOK)
}
