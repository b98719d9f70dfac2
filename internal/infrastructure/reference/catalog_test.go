package reference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 30)

	t.Run("spot checks", func(t *testing.T) {
		carrot, ok := c.GetVegetableByID("carrot")
		require.True(t, ok)
		assert.Equal(t, "Carrot", carrot.Name)
		assert.Equal(t, garden.CategoryRoot, carrot.Category)
		assert.Equal(t, garden.DifficultyBeginner, carrot.CareDifficulty)
		assert.Contains(t, carrot.CompanionPlants, "Onions")

		broccoli, ok := c.GetVegetableByID("broccoli")
		require.True(t, ok)
		assert.Equal(t, garden.CategoryBrassica, broccoli.Category)
	})

	t.Run("every cycle group has candidates", func(t *testing.T) {
		counts := map[garden.RotationGroup]int{}
		for _, v := range c.ListAllVegetables() {
			g, ok := garden.CategoryToGroup(v.Category)
			require.True(t, ok, v.ID)
			counts[g]++
		}
		for _, g := range garden.RotationCycle() {
			assert.Positive(t, counts[g], g)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, ok := c.GetVegetableByID("triffid")
		assert.False(t, ok)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		v, _ := c.GetVegetableByID("carrot")
		v.CompanionPlants[0] = "Weeds"
		again, _ := c.GetVegetableByID("carrot")
		assert.NotEqual(t, "Weeds", again.CompanionPlants[0])

		all := c.ListAllVegetables()
		all[0].Name = "Changed"
		assert.NotEqual(t, "Changed", c.ListAllVegetables()[0].Name)
	})
}

func TestLoadFromBytes(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := LoadFromBytes([]byte(`
vegetables:
  - id: kohlrabi
    name: Kohlrabi
    category: brassica
    difficulty: intermediate
    companions: [Beetroot]
    avoid: [Tomatoes]
`))
		require.NoError(t, err)
		v, ok := c.GetVegetableByID("kohlrabi")
		require.True(t, ok)
		assert.Equal(t, []string{"Tomatoes"}, v.AvoidPlants)
	})

	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "vegetables: []"},
		{"missing name", "vegetables:\n  - id: x\n    category: root\n    difficulty: beginner"},
		{"unknown category", "vegetables:\n  - id: x\n    name: X\n    category: fungus\n    difficulty: beginner"},
		{"unknown difficulty", "vegetables:\n  - id: x\n    name: X\n    category: root\n    difficulty: easy"},
		{"duplicate id", "vegetables:\n  - {id: x, name: X, category: root, difficulty: beginner}\n  - {id: x, name: Y, category: root, difficulty: beginner}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadFromBytes([]byte("vegetables: [\n"))
		assert.Error(t, err)
	})
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/vegetables.yaml")
	assert.Error(t, err)
}
