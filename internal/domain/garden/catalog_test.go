package garden

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testCatalog struct {
	order []string
	byID  map[string]Vegetable
}

func newTestCatalog(vegs ...Vegetable) *testCatalog {
	c := &testCatalog{byID: make(map[string]Vegetable)}
	for _, v := range vegs {
		c.order = append(c.order, v.ID)
		c.byID[v.ID] = v
	}
	return c
}

func (c *testCatalog) GetVegetableByID(id string) (*Vegetable, bool) {
	v, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (c *testCatalog) ListAllVegetables() []Vegetable {
	out := make([]Vegetable, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

var (
	peas = Vegetable{ID: "peas", Name: "Peas", Category: CategoryLegume, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Carrots", "Radish"}, AvoidPlants: []string{"Onions", "Garlic"}}
	broadBeans = Vegetable{ID: "broad-beans", Name: "Broad Beans", Category: CategoryLegume, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Potatoes"}, AvoidPlants: []string{"Onions"}}
	runnerBeans = Vegetable{ID: "runner-beans", Name: "Runner Beans", Category: CategoryLegume, CareDifficulty: DifficultyIntermediate,
		CompanionPlants: []string{"Sweetcorn"}, AvoidPlants: []string{"Onions"}}
	broccoli = Vegetable{ID: "broccoli", Name: "Broccoli", Category: CategoryBrassica, CareDifficulty: DifficultyIntermediate,
		CompanionPlants: []string{"Onions", "Celery"}, AvoidPlants: []string{"Strawberries"}}
	cabbage = Vegetable{ID: "cabbage", Name: "Cabbage", Category: CategoryBrassica, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Onion"}, AvoidPlants: []string{"Strawberry"}}
	carrot = Vegetable{ID: "carrot", Name: "Carrot", Category: CategoryRoot, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Onions", "Leeks", "Rosemary"}, AvoidPlants: []string{"Dill"}}
	beetroot = Vegetable{ID: "beetroot", Name: "Beetroot", Category: CategoryRoot, CareDifficulty: DifficultyBeginner}
	onion    = Vegetable{ID: "onion", Name: "Onion", Category: CategoryAllium, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Carrots", "Beetroot"}, AvoidPlants: []string{"Peas", "Beans"}}
	tomato = Vegetable{ID: "tomato", Name: "Tomato", Category: CategorySolanaceae, CareDifficulty: DifficultyIntermediate,
		CompanionPlants: []string{"Basil"}, AvoidPlants: []string{"Potatoes"}}
	basil = Vegetable{ID: "basil", Name: "Basil", Category: CategoryHerb, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Tomatoes"}}
	rosemary = Vegetable{ID: "rosemary", Name: "Rosemary", Category: CategoryHerb, CareDifficulty: DifficultyBeginner,
		CompanionPlants: []string{"Carrots", "Cabbage", "Beans", "Sage"}}
)

func defaultTestCatalog() *testCatalog {
	return newTestCatalog(peas, broadBeans, runnerBeans, broccoli, cabbage, carrot, beetroot, onion, tomato, basil, rosemary)
}

// newTestPlot builds a plot and plants the given cells; keys are "row,col".
func newTestPlot(t *testing.T, rows, cols int, planted map[[2]int]string) *Plot {
	t.Helper()
	p, err := NewPlot("Bed A", rows, cols)
	require.NoError(t, err)
	for pos, veg := range planted {
		require.NoError(t, p.PlantCell(pos[0], pos[1], veg, 2024))
	}
	p.ClearDomainEvents()
	return p
}

func record(plotID uuid.UUID, year int, group RotationGroup, vegs ...string) RotationHistoryRecord {
	return RotationHistoryRecord{ID: uuid.New(), PlotID: plotID, Year: year, RotationGroup: group, VegetableIDs: vegs}
}

// indexPicker always returns the same index and remembers the bounds it was asked for
type indexPicker struct {
	index int
	calls []int
}

func (p *indexPicker) IntN(n int) int {
	p.calls = append(p.calls, n)
	if p.index >= n {
		return n - 1
	}
	return p.index
}
