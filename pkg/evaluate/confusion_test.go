package evaluate

import (
	"errors"
	"testing"

	"github.com/zpam/spamnb/pkg/learning"
)

func TestConfusionAdd(t *testing.T) {
	var c Confusion
	c.Add(learning.Spam, learning.Spam)
	c.Add(learning.Spam, learning.Ham)
	c.Add(learning.Ham, learning.Spam)
	c.Add(learning.Ham, learning.Ham)
	c.Add(learning.Ham, learning.Ham)

	if c != (Confusion{TP: 1, FP: 1, FN: 1, TN: 2}) {
		t.Fatalf("unexpected counts: %s", c)
	}
	if c.Total() != 5 {
		t.Errorf("total = %d, expected 5", c.Total())
	}
}

func TestConfusionRates(t *testing.T) {
	c := Confusion{TP: 6, FP: 2, FN: 3, TN: 9}

	acc, err := c.Accuracy()
	if err != nil || acc != 0.75 {
		t.Errorf("accuracy = %v, %v", acc, err)
	}
	precision, err := c.Precision()
	if err != nil || precision != 0.75 {
		t.Errorf("precision = %v, %v", precision, err)
	}
	recall, err := c.Recall()
	if err != nil || recall != 6.0/9.0 {
		t.Errorf("recall = %v, %v", recall, err)
	}
}

func TestConfusionZeroDenominator(t *testing.T) {
	testCases := []struct {
		name string
		c    Confusion
		rate func(Confusion) (float64, error)
	}{
		{"accuracy of nothing", Confusion{}, Confusion.Accuracy},
		{"precision without spam predictions", Confusion{FN: 3, TN: 4}, Confusion.Precision},
		{"recall without spam", Confusion{FP: 1, TN: 4}, Confusion.Recall},
	}

	for _, tc := range testCases {
		if _, err := tc.rate(tc.c); !errors.Is(err, ErrZeroDenominator) {
			t.Errorf("%s: expected ErrZeroDenominator, got %v", tc.name, err)
		}
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		NoModel:     "no-model",
		ModelLoaded: "model-loaded",
		Evaluating:  "evaluating",
		Done:        "done",
		State(42):   "unknown",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("%d: got %q, expected %q", s, s.String(), want)
		}
	}
}
