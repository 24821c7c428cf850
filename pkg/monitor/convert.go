package monitor

import (
	"fmt"

	"adastra-hq/pulse/pkg/config"
)

// FromConfig converts configured thresholds into watchable ones. Config
// validation already constrains the vocabulary; errors here indicate the
// config was built in code and skipped validation.
func FromConfig(cfgs []config.ThresholdConfig) ([]Threshold, error) {
	thresholds := make([]Threshold, 0, len(cfgs))
	for i, tc := range cfgs {
		comparator, err := ParseComparator(tc.Comparator)
		if err != nil {
			return nil, fmt.Errorf("threshold %d (%s): %w", i, tc.Metric, err)
		}
		thresholds = append(thresholds, Threshold{
			Metric:     tc.Metric,
			Comparator: comparator,
			Limit:      tc.Limit,
			Severity:   Severity(tc.Severity),
		})
	}
	return thresholds, nil
}
