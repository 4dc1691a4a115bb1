package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

func utc(hour, minute int) time.Time {
	return time.Date(2026, 9, 15, hour, minute, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			name: "partial overlap",
			a:    NewInterval(utc(10, 0), utc(11, 0)),
			b:    NewInterval(utc(10, 30), utc(11, 30)),
			want: true,
		},
		{
			name: "containment",
			a:    NewInterval(utc(10, 0), utc(12, 0)),
			b:    NewInterval(utc(10, 30), utc(11, 0)),
			want: true,
		},
		{
			name: "identical",
			a:    NewInterval(utc(10, 0), utc(11, 0)),
			b:    NewInterval(utc(10, 0), utc(11, 0)),
			want: true,
		},
		{
			// Полуоткрытые интервалы: конец одного ровно в начало
			// другого - пересечения нет
			name: "abutting is not overlap",
			a:    NewInterval(utc(10, 0), utc(11, 0)),
			b:    NewInterval(utc(11, 0), utc(12, 0)),
			want: false,
		},
		{
			name: "abutting reversed",
			a:    NewInterval(utc(11, 0), utc(12, 0)),
			b:    NewInterval(utc(10, 0), utc(11, 0)),
			want: false,
		},
		{
			name: "disjoint",
			a:    NewInterval(utc(9, 0), utc(10, 0)),
			b:    NewInterval(utc(14, 0), utc(15, 0)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	outer := NewInterval(utc(9, 0), utc(18, 0))

	assert.True(t, outer.Contains(NewInterval(utc(10, 0), utc(11, 0))))
	assert.True(t, outer.Contains(outer))
	assert.False(t, outer.Contains(NewInterval(utc(8, 0), utc(10, 0))))
	assert.False(t, outer.Contains(NewInterval(utc(17, 0), utc(19, 0))))
}

func TestNewInterval_NormalizesToUTC(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	iv := NewInterval(
		time.Date(2026, 9, 15, 13, 0, 0, 0, moscow),
		time.Date(2026, 9, 15, 14, 0, 0, 0, moscow),
	)

	assert.Equal(t, time.UTC, iv.Start.Location())
	assert.Equal(t, utc(10, 0), iv.Start)
	assert.Equal(t, utc(11, 0), iv.End)
}

func TestIntervalFromLocal(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	iv, err := IntervalFromLocal(date, types.TimeString("10:00"), 60, moscow)
	require.NoError(t, err)

	// 10:00 MSK = 07:00 UTC
	assert.Equal(t, utc(7, 0), iv.Start)
	assert.Equal(t, utc(8, 0), iv.End)
	assert.Equal(t, time.Hour, iv.Duration())

	_, err = IntervalFromLocal(date, types.TimeString("bogus"), 60, moscow)
	require.Error(t, err)
}

func TestDayWindow(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	window := DayWindow(date, moscow)

	// Московские сутки 15.09 начинаются в 21:00 UTC 14.09
	assert.Equal(t, time.Date(2026, 9, 14, 21, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, 9, 15, 21, 0, 0, 0, time.UTC), window.End)
	assert.Equal(t, 24*time.Hour, window.Duration())
}
