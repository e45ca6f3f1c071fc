package attendance

import "school-attendance/backend/internal/entity"

type statusCount struct {
	Status entity.Status `bun:"status"`
	Count  int           `bun:"count"`
}
