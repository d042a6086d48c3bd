package ctmc

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Set DEBUG_TESTS=1 to see simulation logs.
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

// scriptedSource returns the same uniform and exponential draw every time.
type scriptedSource struct {
	u, e          float64
	uCalls, eCall int
}

func (s *scriptedSource) Float64() float64 {
	s.uCalls++
	return s.u
}

func (s *scriptedSource) ExpFloat64() float64 {
	s.eCall++
	return s.e
}
