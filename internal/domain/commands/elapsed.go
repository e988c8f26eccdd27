package commands

import (
	"fmt"
	"time"
)

// formatElapsed renders a duration as hours, minutes and seconds, omitting leading zero units.
func formatElapsed(elapsed time.Duration) string {
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	seconds := elapsed.Seconds() - float64(hours*3600+minutes*60)

	switch {
	case hours > 0:
		return fmt.Sprintf("%d hours, %d minutes, %.2f seconds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%d minutes, %.2f seconds", minutes, seconds)
	default:
		return fmt.Sprintf("%.2f seconds", seconds)
	}
}
