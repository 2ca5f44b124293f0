package config

import (
	"time"
)

// GetSettleDelay returns the post-selection settle delay as time.Duration.
// The menu page re-renders client-side after a date is selected; 3 seconds
// is the empirically safe default.
func (s *Settings) GetSettleDelay() time.Duration {
	if s.SettleDelay <= 0 {
		return 3 * time.Second
	}
	return time.Duration(s.SettleDelay) * time.Second
}

// GetNavigationTimeout returns the bounded wait for the date-selection
// control to appear.
func (s *Settings) GetNavigationTimeout() time.Duration {
	if s.NavigationTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.NavigationTimeout) * time.Second
}
