package report

import (
	"fmt"
)

// sizeUnits is the suffix ladder used by FormatSize, in 1024 steps.
var sizeUnits = []string{"bytes", "KB", "MB", "GB", "TB", "PB"} //nolint:gochecknoglobals // Unit table

// FormatSize renders a byte count with binary multiples: whole bytes below
// 1 KB, two decimals above, capped at PB.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	size := float64(bytes)

	for i, unit := range sizeUnits {
		if size < 1024 || i == len(sizeUnits)-1 {
			if i == 0 {
				return fmt.Sprintf("%d %s", bytes, unit)
			}

			return fmt.Sprintf("%.2f %s", size, unit)
		}

		size /= 1024
	}

	return ""
}
