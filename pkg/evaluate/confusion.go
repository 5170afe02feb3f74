package evaluate

import (
	"errors"
	"fmt"

	"github.com/zpam/spamnb/pkg/learning"
)

// ErrZeroDenominator means precision or recall is undefined for the sample:
// no document was predicted spam, or none of the sampled documents is spam.
// Retry with another sample or a larger test size.
var ErrZeroDenominator = errors.New("zero denominator")

// Confusion counts predictions against ground truth, spam being positive
type Confusion struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
}

// Add records one prediction
func (c *Confusion) Add(predicted, actual learning.Label) {
	switch {
	case predicted == learning.Spam && actual == learning.Spam:
		c.TP++
	case predicted == learning.Spam:
		c.FP++
	case actual == learning.Spam:
		c.FN++
	default:
		c.TN++
	}
}

// Total returns the number of recorded predictions
func (c Confusion) Total() int {
	return c.TP + c.FP + c.FN + c.TN
}

// Accuracy is (TP+TN) / total
func (c Confusion) Accuracy() (float64, error) {
	if c.Total() == 0 {
		return 0, fmt.Errorf("%w: accuracy of an empty sample", ErrZeroDenominator)
	}
	return float64(c.TP+c.TN) / float64(c.Total()), nil
}

// Precision is TP / (TP+FP)
func (c Confusion) Precision() (float64, error) {
	if c.TP+c.FP == 0 {
		return 0, fmt.Errorf("%w: precision with no predicted spam (%s)", ErrZeroDenominator, c)
	}
	return float64(c.TP) / float64(c.TP+c.FP), nil
}

// Recall is TP / (TP+FN)
func (c Confusion) Recall() (float64, error) {
	if c.TP+c.FN == 0 {
		return 0, fmt.Errorf("%w: recall with no spam in the sample (%s)", ErrZeroDenominator, c)
	}
	return float64(c.TP) / float64(c.TP+c.FN), nil
}

func (c Confusion) String() string {
	return fmt.Sprintf("TP:%d FP:%d FN:%d TN:%d", c.TP, c.FP, c.FN, c.TN)
}
