package classifier

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/agentstation/dimcheck/pkg/errors"
)

// Evaluation reports held-out accuracy of a trained model.
type Evaluation struct {
	TrainSize int     `json:"train_size" yaml:"train_size"`
	TestSize  int     `json:"test_size" yaml:"test_size"`
	Correct   int     `json:"correct" yaml:"correct"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
}

// Evaluated reports whether any samples were held out.
func (e Evaluation) Evaluated() bool { return e.TestSize > 0 }

// Split shuffles sample positions with a seeded generator and returns the
// training and test partitions. The test partition holds
// ceil(fraction*len(samples)) samples, but never all of them.
func Split(samples []Sample, fraction float64, seed uint64) (train, test []Sample) {
	n := len(samples)
	nTest := int(math.Ceil(fraction * float64(n)))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	test = make([]Sample, 0, nTest)
	train = make([]Sample, 0, n-nTest)
	for i, p := range perm {
		if i < nTest {
			test = append(test, samples[p])
		} else {
			train = append(train, samples[p])
		}
	}
	return train, test
}

// Train fits a KNN on a seeded split of samples and scores it on the held-out part.
func Train(samples []Sample, opts ...Option) (*KNN, Evaluation, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, Evaluation{}, err
	}
	if len(samples) < 2 && o.testFraction > 0 {
		return nil, Evaluation{}, errors.NewValidationError("samples", len(samples), "need at least two samples to hold out a test set")
	}

	train, test := Split(samples, o.testFraction, o.seed)
	m, err := NewKNN(train, WithK(o.k))
	if err != nil {
		return nil, Evaluation{}, err
	}

	ev, err := Evaluate(m, test)
	if err != nil {
		return nil, Evaluation{}, err
	}
	ev.TrainSize = len(train)

	m.meta = Meta{TrainedAt: time.Now().UTC(), Accuracy: ev.Accuracy, TrainSize: ev.TrainSize, TestSize: ev.TestSize}
	return m, ev, nil
}

// Evaluate scores any classifier against labelled samples.
func Evaluate(c Classifier, samples []Sample) (Evaluation, error) {
	ev := Evaluation{TestSize: len(samples)}
	for _, s := range samples {
		got, err := c.Classify(s.Dims)
		if err != nil {
			return Evaluation{}, err
		}
		if got == s.Label {
			ev.Correct++
		}
	}
	if ev.TestSize > 0 {
		ev.Accuracy = float64(ev.Correct) / float64(ev.TestSize)
	}
	return ev, nil
}
