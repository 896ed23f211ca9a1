package metrics

import (
	"fmt"
	"time"
)

// Report formats a completed transfer's duration, size, and bandwidth
// the way the reference implementation's console output does:
// duration rounded to 3 decimals, size in MB (2 decimals) once the
// transfer reaches 10^6 bits, otherwise KB, bandwidth in Mbps or Kbps
// to match.
func Report(size int64, duration time.Duration) string {
	seconds := duration.Seconds()
	bits := float64(size) * 8
	megabits := bits / 1_000_000
	kilobits := bits / 1_000

	if megabits >= 1 {
		megabytes := round2(float64(size) / 1_000_000)
		bandwidth := round2(megabits / seconds)
		return fmt.Sprintf("DURATION: %s s\t DATA SIZE: %s MB\t BANDWIDTH: %s Mbps",
			round3Str(seconds), floatStr(megabytes), floatStr(bandwidth))
	}
	kilobytes := round2(float64(size) / 1_000)
	bandwidth := round2(kilobits / seconds)
	return fmt.Sprintf("DURATION: %s s\t DATA SIZE: %s KB\t BANDWIDTH: %s Kbps",
		round3Str(seconds), floatStr(kilobytes), floatStr(bandwidth))
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func floatStr(v float64) string {
	return fmt.Sprintf("%g", v)
}

func round3Str(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
