package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportKilobytes(t *testing.T) {
	s := Report(3000, 500*time.Millisecond)
	assert.Contains(t, s, "KB")
	assert.Contains(t, s, "Kbps")
	assert.Contains(t, s, "DURATION: 0.500 s")
}

func TestReportMegabytes(t *testing.T) {
	s := Report(2_000_000, 1*time.Second)
	assert.Contains(t, s, "MB")
	assert.Contains(t, s, "Mbps")
}
