package osc_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-resynth/dsp/osc"
)

func ExampleSine_Next() {
	s := osc.New(0.5*math.Pi, 1, 0)
	for range 4 {
		fmt.Printf("%.0f ", s.Next())
	}
	fmt.Println()

	// Output:
	// 0 1 0 -1
}
