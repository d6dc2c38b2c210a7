package scheduler_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubograf/m/domain"
	"cubograf/m/internal/scheduler"
)

type fakeCloser struct {
	current domain.Period
	closed  []domain.Period
	err     error
}

func (f *fakeCloser) CurrentPeriod() domain.Period { return f.current }

func (f *fakeCloser) CloseMonth(_ context.Context, p domain.Period) (domain.MonthClosing, error) {
	f.closed = append(f.closed, p)
	return domain.MonthClosing{Month: p.Month, Year: p.Year}, f.err
}

type fakePurger struct{ calls int }

func (f *fakePurger) Purge(context.Context) (int64, error) {
	f.calls++
	return 3, nil
}

func TestClosePreviousMonthCrossesYear(t *testing.T) {
	c := &fakeCloser{current: domain.Period{Year: 2025, Month: 1}}
	scheduler.ClosePreviousMonth(c, zerolog.Nop())
	assert.Equal(t, []domain.Period{{Year: 2024, Month: 12}}, c.closed)
}

func TestClosePreviousMonthLogsFailure(t *testing.T) {
	c := &fakeCloser{current: domain.Period{Year: 2024, Month: 5}, err: errors.New("locked")}
	scheduler.ClosePreviousMonth(c, zerolog.Nop())
	assert.Len(t, c.closed, 1)
}

func TestPurgeSessions(t *testing.T) {
	p := &fakePurger{}
	scheduler.PurgeSessions(p, zerolog.Nop())
	assert.Equal(t, 1, p.calls)
}

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := scheduler.New(zerolog.Nop())
	assert.Error(t, s.AddMonthClose("every day", &fakeCloser{}))
	require.NoError(t, s.AddMonthClose("0 2 1 * *", &fakeCloser{}))
	require.NoError(t, s.AddSessionPurge("@hourly", &fakePurger{}))

	s.Start()
	s.Stop(context.Background())
}
