package mframework_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/mframework"
	"github.com/aretw0/mframework/pkg/model"
	"github.com/aretw0/mframework/pkg/schema"
	"github.com/aretw0/mframework/pkg/spec"
)

// ExampleNew builds an aircraft spec in code and computes its cruise range
// with the Breguet equation.
func ExampleNew() {
	cruise := spec.NewFeatureSpec().
		Prop("velocity", schema.PositiveFloat(), spec.Doc("True airspeed in m/s")).
		Prop("lift_to_drag", schema.PositiveFloat()).
		Prop("sfc", schema.PositiveFloat(), spec.Default(0.5))

	results := spec.NewModelSpec().
		With("performance", spec.NewFeatureSpec().Prop("range", schema.Float()))

	ms := spec.NewModelSpec().With("cruise", cruise)
	if err := ms.SetResults(results); err != nil {
		log.Fatal(err)
	}

	breguet := func(ctx context.Context, m *model.Model) (any, error) {
		c, err := m.Feature("cruise")
		if err != nil {
			return nil, err
		}
		v, _ := c.Get("velocity")
		ld, _ := c.Get("lift_to_drag")
		sfc, _ := c.Get("sfc")

		perf, err := m.Results().SetFeature("performance")
		if err != nil {
			return nil, err
		}
		return nil, perf.Set("range", v.(float64)*ld.(float64)/sfc.(float64))
	}

	eng, err := mframework.New(ms, mframework.WithSolver(breguet))
	if err != nil {
		log.Fatal(err)
	}

	m := eng.NewModel()
	c, _ := m.SetFeature("cruise")
	_ = c.Set("velocity", 200.0)
	_ = c.Set("lift_to_drag", 15.0)

	res, err := eng.Run(context.Background(), m)
	if err != nil {
		log.Fatal(err)
	}
	perf, _ := res.Get("performance")
	rng, _ := perf.(*model.Result).Get("range")
	fmt.Println("range:", rng)
	// Output:
	// range: 6000
}

// ExampleEngine_Validate reports every missing required item at once.
func ExampleEngine_Validate() {
	ms := spec.NewModelSpec().
		With("wing", spec.NewFeatureSpec().
			Prop("span", schema.Float()).
			Prop("area", schema.PositiveFloat()))

	eng, err := mframework.New(ms)
	if err != nil {
		log.Fatal(err)
	}

	m := eng.NewModel()
	wing, _ := m.SetFeature("wing")
	_ = wing.Set("span", 20.0)

	fmt.Println(m.Check() != nil)
	_ = wing.Set("area", 40.0)
	fmt.Println(m.Check())
	// Output:
	// true
	// <nil>
}
