package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	props := c.Properties()
	require.Len(t, props, 4)
	wantTiers := []PriceTier{TierModest, TierComfort, TierLuxury, TierGalaxy}
	for i, p := range props {
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, wantTiers[i], p.Tier)
		assert.False(t, p.Generated)
		assert.NotEmpty(t, p.Image.URL)
		assert.NotEmpty(t, p.Description)
	}
	assert.Equal(t, "Stardust Spire", props[0].Name)

	cities := c.Cities()
	assert.GreaterOrEqual(t, len(cities), 10)
	var found bool
	for _, city := range cities {
		if city.Name == "Tokyo" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseCatalogValidation(t *testing.T) {
	for name, raw := range map[string]string{
		"duplicate id": "properties:\n- {id: 1, name: A, tier: Modest}\n- {id: 1, name: B, tier: Modest}\n",
		"unknown tier": "properties:\n- {id: 1, name: A, tier: Platinum}\n",
		"no name":      "properties:\n- {id: 1, tier: Modest}\n",
		"bad city":     "cities:\n- {name: Nowhere, lat: 120, lng: 0}\n",
		"bad yaml":     "properties: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestApplyImageOnlyOnce(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	first := ImageRef{MIMEType: "image/png", Data: []byte("one")}
	ok, err := c.ApplyImage(1, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ApplyImage(1, ImageRef{MIMEType: "image/png", Data: []byte("two")})
	require.NoError(t, err)
	assert.False(t, ok)
	p, _ := c.Property(1)
	assert.Equal(t, first.Data, p.Image.Data)

	_, err = c.ApplyImage(42, first)
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestPropertiesAreCopies(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	props := c.Properties()
	props[0].Name = "mutated"
	p, _ := c.Property(1)
	assert.Equal(t, "Stardust Spire", p.Name)
}

func TestImageRefDataURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a.webp", ImageRef{URL: "https://example.com/a.webp"}.DataURL())
	assert.Equal(t, "data:image/png;base64,AQI=", ImageRef{Data: []byte{1, 2}}.DataURL())
	assert.True(t, ImageRef{}.Empty())
}
