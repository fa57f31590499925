package engine

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

var (
	ErrUnknownProperty = errors.New("unknown property")
	// ErrNoImage marks a generation response that carried no image payload.
	ErrNoImage = errors.New("no image in generation response")
)

// ImageRef points at a displayable image: a remote URL or an inline payload.
type ImageRef struct {
	URL      string `yaml:"url"`
	MIMEType string `yaml:"-"`
	Data     []byte `yaml:"-"`
}

func (r ImageRef) Inline() bool { return len(r.Data) > 0 }
func (r ImageRef) Empty() bool  { return r.URL == "" && len(r.Data) == 0 }

// DataURL renders inline payloads in data: URL form; remote refs return URL.
func (r ImageRef) DataURL() string {
	if !r.Inline() {
		return r.URL
	}
	mime := r.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

func (r ImageRef) String() string {
	if r.Inline() {
		return fmt.Sprintf("[%s, %d bytes]", r.MIMEType, len(r.Data))
	}
	return r.URL
}

// Property is one condo listing.
type Property struct {
	ID          int       `yaml:"id"`
	Name        string    `yaml:"name"`
	Tier        PriceTier `yaml:"tier"`
	Description string    `yaml:"description"`
	Image       ImageRef  `yaml:"image"`
	Generated   bool      `yaml:"-"`
}

// City is a teleporter departure location.
type City struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

type catalogFile struct {
	Properties []Property `yaml:"properties"`
	Cities     []City     `yaml:"cities"`
}

// Catalog owns the property list for the session. Cities never change.
// Not safe for concurrent use; the UI event loop is its only caller.
type Catalog struct {
	properties map[int]*Property
	order      []int
	cities     []City
}

// LoadCatalog decodes the embedded seed data.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	return NewCatalog(f.Properties, f.Cities)
}

// NewCatalog validates the records and builds a catalog from them.
func NewCatalog(props []Property, cities []City) (*Catalog, error) {
	c := &Catalog{properties: make(map[int]*Property, len(props))}
	for _, p := range props {
		if _, dup := c.properties[p.ID]; dup {
			return nil, errors.Errorf("duplicate property id %d", p.ID)
		}
		if p.Name == "" {
			return nil, errors.Errorf("property %d has no name", p.ID)
		}
		if !p.Tier.Validate() {
			return nil, errors.Errorf("property %d has unknown tier %q", p.ID, p.Tier)
		}
		p := p
		p.Generated = false
		c.properties[p.ID] = &p
		c.order = append(c.order, p.ID)
	}
	sort.Ints(c.order)
	for _, city := range cities {
		if city.Name == "" {
			return nil, errors.New("city without name")
		}
		if city.Lat < -90 || city.Lat > 90 || city.Lng < -180 || city.Lng > 180 {
			return nil, errors.Errorf("city %s has out of range coordinates", city.Name)
		}
		c.cities = append(c.cities, city)
	}
	return c, nil
}

// Properties returns copies in id order.
func (c *Catalog) Properties() []Property {
	out := make([]Property, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.properties[id])
	}
	return out
}

func (c *Catalog) Property(id int) (Property, bool) {
	p, ok := c.properties[id]
	if !ok {
		return Property{}, false
	}
	return *p, true
}

// Cities returns a copy of the candidate departure cities.
func (c *Catalog) Cities() []City { return append([]City{}, c.cities...) }

// ApplyImage swaps in a generated render. The generated flag is the only
// guard: a property that already has a render is left untouched.
func (c *Catalog) ApplyImage(id int, ref ImageRef) (bool, error) {
	p, ok := c.properties[id]
	if !ok {
		return false, errors.Wrapf(ErrUnknownProperty, "id %d", id)
	}
	if p.Generated {
		return false, nil
	}
	p.Image = ref
	p.Generated = true
	return true, nil
}
