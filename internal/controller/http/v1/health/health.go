package health

import (
	"net/http"
	"time"

	"school-attendance/backend/foundation/web"
)

type Controller struct {
	now func() time.Time
}

func NewController() *Controller {
	return &Controller{now: time.Now}
}

// Check reports that the process is serving requests.
func (hc Controller) Check(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"status":    "ok",
		"timestamp": hc.now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}
