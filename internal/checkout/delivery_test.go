package checkout

import (
	"testing"

	"materiaux-bot/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestMatchDeliveryChoice(t *testing.T) {
	t.Run("Express", func(t *testing.T) {
		for _, in := range []string{
			LabelDeliveryExpress,
			"express",
			"EXPRESS svp",
			"je veux Express (24–48h)",
		} {
			dt, ok := MatchDeliveryChoice(in)
			assert.True(t, ok, in)
			assert.Equal(t, session.DeliveryExpress, dt, in)
		}
	})

	t.Run("Standard", func(t *testing.T) {
		for _, in := range []string{
			LabelDeliveryStandard,
			"standard",
			"Standard (2–4 jours)",
		} {
			dt, ok := MatchDeliveryChoice(in)
			assert.True(t, ok, in)
			assert.Equal(t, session.DeliveryStandard, dt, in)
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		for _, in := range []string{"", "rapide", "demain", "oui", "1"} {
			_, ok := MatchDeliveryChoice(in)
			assert.False(t, ok, in)
		}
	})
}

func TestProductCallback(t *testing.T) {
	data := ProductCallback(5)
	assert.Equal(t, "p_5", data)

	id, ok := ParseProductCallback(data)
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	_, ok = ParseProductCallback("x_5")
	assert.False(t, ok)

	_, ok = ParseProductCallback("p_abc")
	assert.False(t, ok)
}
