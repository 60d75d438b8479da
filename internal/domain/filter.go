package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateRange limits listings to recently submitted orders.
type DateRange string

const (
	DateRangeAll   DateRange = ""
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
	DateRangeYear  DateRange = "year"
)

// ParseDateRange accepts "", "all", "today", "week", "month" and "year".
func ParseDateRange(raw string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(raw))); r {
	case "all":
		return DateRangeAll, nil
	case DateRangeAll, DateRangeToday, DateRangeWeek, DateRangeMonth, DateRangeYear:
		return r, nil
	}
	return "", fmt.Errorf("unknown date range %q", raw)
}

// Contains reports whether t falls inside the range ending at now.
func (r DateRange) Contains(t, now time.Time) bool {
	const day = 24 * time.Hour
	switch r {
	case DateRangeToday:
		ty, tm, td := t.In(now.Location()).Date()
		ny, nm, nd := now.Date()
		return ty == ny && tm == nm && td == nd
	case DateRangeWeek:
		return !t.Before(now.Add(-7 * day))
	case DateRangeMonth:
		return !t.Before(now.Add(-30 * day))
	case DateRangeYear:
		return !t.Before(now.Add(-365 * day))
	default:
		return true
	}
}

// OrderFilter is a conjunction of optional criteria. Zero values match everything.
type OrderFilter struct {
	UserID    string
	Status    OrderStatus
	Search    string
	DateRange DateRange
}

// Matches evaluates the filter against an order; ownerName is the resolved
// owner's full name, empty for orphaned orders.
func (f OrderFilter) Matches(o *Order, ownerName string, now time.Time) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if !f.DateRange.Contains(o.SubmittedAt, now) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.ID), term) ||
		strings.Contains(strings.ToLower(o.DocumentType), term) ||
		strings.Contains(strings.ToLower(DocumentLabel(o.DocumentType)), term) ||
		strings.Contains(strings.ToLower(ownerName), term)
}

// SortNewestFirst orders by submission time descending, ties broken by ID.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].SubmittedAt.Equal(orders[j].SubmittedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].SubmittedAt.After(orders[j].SubmittedAt)
	})
}
