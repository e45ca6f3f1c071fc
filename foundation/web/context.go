package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Context carries the gin context of a request plus the request scoped
// context.Context the rest of the application works with.
type Context struct {
	*gin.Context
	Ctx context.Context

	log       *zap.Logger
	queryErrs []FieldError
	paramErrs []FieldError
}

// GetQueryFunc parses the query value name into kind and returns a pointer to
// it, or nil when the value is absent. Parse failures are collected and
// reported by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	value = strings.TrimSpace(value)

	switch kind {
	case reflect.String:
		return &value
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be an integer"})
			return nil
		}
		return &v
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be a boolean"})
			return nil
		}
		return &v
	case reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: "must be a number"})
			return nil
		}
		return &v
	}

	c.queryErrs = append(c.queryErrs, FieldError{Field: name, Error: fmt.Sprintf("unsupported kind %s", kind)})
	return nil
}

// ValidQuery returns the errors collected by GetQueryFunc.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}

	return NewFieldsError(http.StatusBadRequest, c.queryErrs...)
}

// GetParam parses the path parameter name into kind. The zero value of kind
// is returned on failure and the failure is reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: "must be an integer"})
			return 0
		}
		return v
	default:
		if value == "" {
			c.paramErrs = append(c.paramErrs, FieldError{Field: name, Error: "is required"})
		}
		return value
	}
}

// ValidParam returns the errors collected by GetParam.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}

	return NewFieldsError(http.StatusBadRequest, c.paramErrs...)
}

// BindFunc decodes the request into obj and checks that the listed fields
// are set. A field may be given by its Go name or its json tag, several
// fields may be given comma separated.
func (c *Context) BindFunc(obj interface{}, required ...string) error {
	if err := c.ShouldBind(obj); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	return CheckRequired(obj, required...)
}

// Respond converts a Go value to JSON and sends it to the client.
func (c *Context) Respond(data interface{}, status int) error {
	if status == http.StatusNoContent {
		c.Status(status)
		return nil
	}

	c.JSON(status, data)
	return nil
}

// RespondError sends an error response back to the client. Errors that are
// not a *Error are logged and hidden behind a 500.
func (c *Context) RespondError(err error) error {
	var webErr *Error
	if errors.As(err, &webErr) {
		if webErr.Status >= http.StatusInternalServerError && c.log != nil {
			c.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}

		c.AbortWithStatusJSON(webErr.Status, ErrorResponse{
			Error:  webErr.Error(),
			Fields: webErr.Fields,
			Status: false,
		})
		return nil
	}

	if c.log != nil {
		c.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:  http.StatusText(http.StatusInternalServerError),
		Status: false,
	})
	return nil
}

// CheckRequired reports every listed field of obj still holding its zero value.
func CheckRequired(obj interface{}, fields ...string) error {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return NewRequestError(errors.New("empty request"), http.StatusBadRequest)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var missing []FieldError
	for _, group := range fields {
		for _, name := range strings.Split(group, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			field, label, ok := lookupField(v, name)
			if !ok {
				continue
			}

			if field.IsZero() {
				missing = append(missing, FieldError{Field: label, Error: "is required"})
				continue
			}
			if field.Kind() == reflect.Ptr && field.Elem().Kind() == reflect.String && strings.TrimSpace(field.Elem().String()) == "" {
				missing = append(missing, FieldError{Field: label, Error: "is required"})
			}
		}
	}

	if len(missing) > 0 {
		return NewFieldsError(http.StatusBadRequest, missing...)
	}

	return nil
}

func lookupField(v reflect.Value, name string) (reflect.Value, string, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := strings.Split(sf.Tag.Get("json"), ",")[0]
		if sf.Name == name || (tag != "" && tag == name) {
			label := tag
			if label == "" || label == "-" {
				label = sf.Name
			}
			return v.Field(i), label, true
		}
	}

	return reflect.Value{}, "", false
}
