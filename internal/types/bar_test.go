package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDataPeriod(t *testing.T) {
	assert.Equal(t, DataPeriod{}, NewDataPeriod(nil))

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		{Date: start, Close: 100},
		{Date: start.AddDate(0, 0, 1), Close: 101},
		{Date: start.AddDate(0, 0, 2), Close: 102},
	}

	period := NewDataPeriod(bars)
	assert.Equal(t, start, period.Start)
	assert.Equal(t, start.AddDate(0, 0, 2), period.End)
	assert.Equal(t, 3, period.TotalDays)
}
