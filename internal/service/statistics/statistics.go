// Package statistics derives rates and counts from attendance records.
// Every function is pure and works on already loaded records.
package statistics

import (
	"math"
	"sort"
	"time"

	"school-attendance/backend/internal/entity"
)

// RateOf returns present/total as a percentage rounded to one decimal, or
// 0 when total is 0.
func RateOf(present, total int) float64 {
	if total <= 0 {
		return 0
	}

	return math.Round(float64(present)/float64(total)*1000) / 10
}

// Rate is the share of PRESENT records.
func Rate(records []entity.Attendance) float64 {
	return RateOf(countStatus(records, entity.StatusPresent), len(records))
}

// Breakdown counts records per status. Every status is present in the
// result, zero when unused.
func Breakdown(records []entity.Attendance) map[entity.Status]int {
	counts := make(map[entity.Status]int, len(entity.Statuses))
	for _, s := range entity.Statuses {
		counts[s] = 0
	}

	for _, rec := range records {
		counts[rec.Status]++
	}

	return counts
}

// NotMarked is the number of expected students minus the number of distinct
// students with a record. Records of students outside expected still count,
// so the result can be negative.
func NotMarked(expected []int, records []entity.Attendance) int {
	seen := make(map[int]struct{}, len(records))
	for _, rec := range records {
		seen[rec.UserID] = struct{}{}
	}

	return len(expected) - len(seen)
}

type ClassCount struct {
	Class        string `json:"class"`
	StudentCount int    `json:"student_count"`
}

// ClassCounts groups students by class, sorted by class. Users without a
// class and users that are not students are skipped.
func ClassCounts(users []entity.User) []ClassCount {
	counts := make(map[string]int)
	for _, u := range users {
		if !u.IsStudent() || u.ClassName() == "" {
			continue
		}
		counts[u.ClassName()]++
	}

	list := make([]ClassCount, 0, len(counts))
	for class, n := range counts {
		list = append(list, ClassCount{Class: class, StudentCount: n})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Class < list[j].Class
	})

	return list
}

// Classes returns the distinct classes of the students, sorted.
func Classes(users []entity.User) []string {
	counts := ClassCounts(users)

	list := make([]string, len(counts))
	for i, c := range counts {
		list[i] = c.Class
	}

	return list
}

type Summary struct {
	Total   int     `json:"total_days"`
	Present int     `json:"present_days"`
	Absent  int     `json:"absent_days"`
	Rate    float64 `json:"attendance_rate"`
}

// Summarize counts the records, treating every status but PRESENT as absent.
func Summarize(records []entity.Attendance) Summary {
	present := countStatus(records, entity.StatusPresent)

	return Summary{
		Total:   len(records),
		Present: present,
		Absent:  len(records) - present,
		Rate:    RateOf(present, len(records)),
	}
}

type StatusStat struct {
	Status    entity.Status `json:"status"`
	Count     int           `json:"count"`
	FirstDate *string       `json:"first_date"`
	LastDate  *string       `json:"last_date"`
}

// StatusHistory returns, for every status, how many records carry it and
// the first and last date it was seen.
func StatusHistory(records []entity.Attendance) []StatusStat {
	type span struct {
		count       int
		first, last time.Time
	}

	spans := make(map[entity.Status]*span, len(entity.Statuses))
	for _, rec := range records {
		s, ok := spans[rec.Status]
		if !ok {
			spans[rec.Status] = &span{count: 1, first: rec.Date.Time, last: rec.Date.Time}
			continue
		}

		s.count++
		if rec.Date.Before(s.first) {
			s.first = rec.Date.Time
		}
		if rec.Date.After(s.last) {
			s.last = rec.Date.Time
		}
	}

	list := make([]StatusStat, 0, len(entity.Statuses))
	for _, status := range entity.Statuses {
		stat := StatusStat{Status: status}
		if s, ok := spans[status]; ok {
			first := s.first.Format(entity.DateLayout)
			last := s.last.Format(entity.DateLayout)
			stat.Count = s.count
			stat.FirstDate = &first
			stat.LastDate = &last
		}
		list = append(list, stat)
	}

	return list
}

func countStatus(records []entity.Attendance, status entity.Status) int {
	n := 0
	for _, rec := range records {
		if rec.Status == status {
			n++
		}
	}
	return n
}
