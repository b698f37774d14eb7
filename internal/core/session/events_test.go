package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	cases := map[int]string{
		0:    "0:00",
		5:    "0:05",
		59:   "0:59",
		60:   "1:00",
		75:   "1:15",
		125:  "2:05",
		3600: "60:00",
		7261: "121:01",
		-4:   "0:00",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, FormatTime(seconds), "FormatTime(%d)", seconds)
	}
}

func TestSnapshotDisplay(t *testing.T) {
	countdown := Snapshot{TimerMinutes: 2, Remaining: 95, Elapsed: 12}
	assert.True(t, countdown.CountingDown())
	assert.Equal(t, "1:35", countdown.Display())

	countUp := Snapshot{Remaining: 95, Elapsed: 12}
	assert.False(t, countUp.CountingDown())
	assert.Equal(t, "0:12", countUp.Display())
}
