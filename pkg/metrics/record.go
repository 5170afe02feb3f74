package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Record is the outcome of one evaluation run. JSON keys match the
// result.json files written by earlier versions of the tool.
type Record struct {
	RunID         string  `json:"runId,omitempty" db:"run_id"`
	TrainNum      int     `json:"trainNum" db:"train_num"`
	TestNum       int     `json:"testNum" db:"test_num"`
	ACC           float64 `json:"ACC" db:"acc"`
	PrecisionRate float64 `json:"precisonRate" db:"precision_rate"`
	RecallRate    float64 `json:"recallRate" db:"recall_rate"`
	Timestamp     float64 `json:"datatime" db:"created_at"`

	TP int `json:"TP,omitempty" db:"tp"`
	FP int `json:"FP,omitempty" db:"fp"`
	FN int `json:"FN,omitempty" db:"fn"`
	TN int `json:"TN,omitempty" db:"tn"`
}

// NewRecord stamps a record with a fresh run id and the current time
func NewRecord(trainNum, testNum int, acc, precision, recall float64) Record {
	now := time.Now()
	return Record{
		RunID:         uuid.NewString(),
		TrainNum:      trainNum,
		TestNum:       testNum,
		ACC:           acc,
		PrecisionRate: precision,
		RecallRate:    recall,
		Timestamp:     float64(now.UnixNano()) / float64(time.Second),
	}
}

// Key returns the collection key of the record
func (r Record) Key() string {
	return Key(r.TrainNum)
}

// Time converts the unix timestamp back to a time
func (r Record) Time() time.Time {
	sec := int64(r.Timestamp)
	nsec := int64((r.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// Key formats a training size as a collection key
func Key(trainNum int) string {
	return strconv.Itoa(trainNum)
}

// Collection groups records by training size key
type Collection map[string][]Record

// Add appends r under its key
func (c Collection) Add(r Record) {
	c[r.Key()] = append(c[r.Key()], r)
}

// Keys returns the collection keys ordered by numeric training size
func (c Collection) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Len returns the total number of records
func (c Collection) Len() int {
	n := 0
	for _, records := range c {
		n += len(records)
	}
	return n
}
