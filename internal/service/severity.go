package service

import (
	"strings"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// severityKeywords is checked in order; the first tier with a matching keyword wins.
var severityKeywords = []struct {
	tier     model.SeverityTier
	keywords []string
}{
	{model.SeverityExtreme, []string{"extreme", "tornado", "hurricane", "typhoon"}},
	{model.SeveritySevere, []string{"severe", "warning", "thunderstorm", "flood"}},
	{model.SeverityModerate, []string{"moderate", "watch", "advisory"}},
}

// ClassifySeverity derives an alert's tier from its event name.
func ClassifySeverity(eventName string) model.SeverityTier {
	name := strings.ToLower(eventName)
	for _, level := range severityKeywords {
		for _, kw := range level.keywords {
			if strings.Contains(name, kw) {
				return level.tier
			}
		}
	}
	return model.SeverityMinor
}
