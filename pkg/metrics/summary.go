package metrics

import (
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"
)

// Summary holds the mean metrics of all runs for one training size
type Summary struct {
	Key       string
	TrainNum  int
	Runs      int
	ACC       float64
	Precision float64
	Recall    float64
}

// Summarize averages each training size's records, ordered by training size
func Summarize(c Collection) ([]Summary, error) {
	var out []Summary

	for _, key := range c.Keys() {
		records := c[key]
		if len(records) == 0 {
			continue
		}

		acc := make(stats.Float64Data, len(records))
		prec := make(stats.Float64Data, len(records))
		rec := make(stats.Float64Data, len(records))
		for i, r := range records {
			acc[i] = r.ACC
			prec[i] = r.PrecisionRate
			rec[i] = r.RecallRate
		}

		s := Summary{Key: key, Runs: len(records)}
		s.TrainNum, _ = strconv.Atoi(key)

		var err error
		if s.ACC, err = acc.Mean(); err != nil {
			return nil, fmt.Errorf("failed to average accuracy for %s: %w", key, err)
		}
		if s.Precision, err = prec.Mean(); err != nil {
			return nil, fmt.Errorf("failed to average precision for %s: %w", key, err)
		}
		if s.Recall, err = rec.Mean(); err != nil {
			return nil, fmt.Errorf("failed to average recall for %s: %w", key, err)
		}

		out = append(out, s)
	}

	return out, nil
}
