package schoolClass

import (
	"net/http"
	"reflect"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/repository/postgres/schoolClass"
)

type listItem struct {
	entity.SchoolClass
	FullName string `json:"full_name"`
}

type Controller struct {
	class SchoolClass
}

func NewController(class SchoolClass) *Controller {
	return &Controller{class}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter schoolClass.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.class.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	results := make([]listItem, 0, len(list))
	for _, class := range list {
		results = append(results, listItem{SchoolClass: class, FullName: class.FullName()})
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": results,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.class.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request schoolClass.CreateRequest

	if err := c.BindFunc(&request, "Name", "Grade"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.class.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request schoolClass.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	response, err := uc.class.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.class.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
