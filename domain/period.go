package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of every date column (year-month-day).
const DateLayout = "2006-01-02"

var ErrInvalidMonth = errors.New("mês inválido")

// Period is a calendar month used to bucket dated records.
type Period struct {
	Year  int `json:"ano"`
	Month int `json:"mes"`
}

func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidMonth
	}
	return Period{Year: year, Month: month}, nil
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Prefix is the YYYY-MM string every date inside the period starts with.
func (p Period) Prefix() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Contains reports whether a YYYY-MM-DD date string falls inside the period.
func (p Period) Contains(date string) bool {
	return strings.HasPrefix(date, p.Prefix())
}

func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// FirstDay returns the date of the first day of the period.
func (p Period) FirstDay() string {
	return p.Prefix() + "-01"
}

func (p Period) String() string {
	return p.Prefix()
}
