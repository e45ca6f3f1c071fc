package attendance

import (
	"net/http"
	"reflect"

	"github.com/pkg/errors"

	"school-attendance/backend/foundation/web"
	"school-attendance/backend/internal/auth"
	"school-attendance/backend/internal/entity"
	"school-attendance/backend/internal/service/attendance"
	"school-attendance/backend/internal/service/dashboard"
)

type Controller struct {
	rules     Rules
	dashboard Dashboard
}

func NewController(rules Rules, dashboard Dashboard) *Controller {
	return &Controller{rules: rules, dashboard: dashboard}
}

func (uc Controller) CheckIn(c *web.Context) error {
	caller, err := identity(c)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.rules.CheckIn(c.Ctx, caller)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": "check in recorded",
		"status":  true,
	}, http.StatusOK)
}

func (uc Controller) CheckOut(c *web.Context) error {
	caller, err := identity(c)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.rules.CheckOut(c.Ctx, caller)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": "check out recorded",
		"status":  true,
	}, http.StatusOK)
}

func (uc Controller) Mark(c *web.Context) error {
	caller, err := identity(c)
	if err != nil {
		return c.RespondError(err)
	}

	var request attendance.MarkRequest

	if err := c.BindFunc(&request, "UserID", "Date", "Status"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.rules.Mark(c.Ctx, caller, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": "attendance marked",
		"status":  true,
	}, http.StatusOK)
}

// View answers with the screen model of the caller's role.
func (uc Controller) View(c *web.Context) error {
	caller, err := identity(c)
	if err != nil {
		return c.RespondError(err)
	}

	var filters dashboard.Filters

	if class, ok := c.GetQueryFunc(reflect.String, "class").(*string); ok {
		filters.Class = class
	}
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filters.Date = date
	}
	if dateFrom, ok := c.GetQueryFunc(reflect.String, "date_from").(*string); ok {
		filters.DateFrom = dateFrom
	}
	if dateTo, ok := c.GetQueryFunc(reflect.String, "date_to").(*string); ok {
		filters.DateTo = dateTo
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filters.Status = status
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filters.Page = page
	}
	if days, ok := c.GetQueryFunc(reflect.Int, "days").(*int); ok {
		filters.Days = days
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	view, err := uc.dashboard.View(c.Ctx, caller, filters)
	if err != nil {
		return c.RespondError(err)
	}

	if view.Redirect != "" {
		c.Redirect(http.StatusSeeOther, view.Redirect)
		return nil
	}

	return c.Respond(map[string]interface{}{
		"data":   view,
		"status": true,
	}, http.StatusOK)
}

func identity(c *web.Context) (entity.Identity, error) {
	claims, ok := auth.GetClaims(c.Ctx)
	if !ok {
		return entity.Identity{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	return claims.Identity(), nil
}
