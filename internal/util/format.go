package util

import (
	"fmt"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count with binary units and at most one decimal.
func FormatSize(size int64) string {
	if size < 0 {
		return "-" + FormatSize(-size)
	}
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	exp := 0
	for value >= unit && exp < len(sizeUnits)-1 {
		value /= unit
		exp++
	}
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d %s", int64(value), sizeUnits[exp])
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[exp])
}
