package engine

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Stage is the purchase journey. Exactly one variant is active, so a
// combination such as "paid but no design" cannot be represented.
type Stage interface{ stage() }

// Browsing: nothing or only one of property/city chosen.
type Browsing struct {
	Property *int
	City     *City
}

// Designing: property and city chosen, avatar not yet finalized.
type Designing struct {
	Property int
	City     City
}

// Paying: design finalized, deposit not yet submitted.
type Paying struct {
	Property int
	City     City
	Design   AvatarDesign
}

// Confirmed: deposit submitted.
type Confirmed struct {
	Property int
	City     City
	Design   AvatarDesign
	Order    uuid.UUID
}

func (Browsing) stage()  {}
func (Designing) stage() {}
func (Paying) stage()    {}
func (Confirmed) stage() {}

// View is the top-level screen the user navigated to.
type View string

const (
	ViewCatalog View = "catalog"
	ViewMap     View = "map"
)

// Screen is what actually gets mounted after evaluating the flow.
type Screen string

const (
	ScreenCatalog  Screen = "catalog"
	ScreenMap      Screen = "map"
	ScreenDesigner Screen = "designer"
)

// Panel is the region rendered beneath the catalog.
type Panel string

const (
	PanelNone         Panel = "none"
	PanelPayment      Panel = "payment"
	PanelConfirmation Panel = "confirmation"
)

// Flow sequences the user journey. It performs no I/O: image requests are
// split into Begin/Complete so the caller runs the gateway call in between.
type Flow struct {
	catalog  *Catalog
	stage    Stage
	view     View
	viewing  *int
	inFlight map[int]bool
	failures map[int]error
}

func NewFlow(c *Catalog) *Flow {
	return &Flow{
		catalog:  c,
		stage:    Browsing{},
		view:     ViewCatalog,
		inFlight: map[int]bool{},
		failures: map[int]error{},
	}
}

func (f *Flow) Catalog() *Catalog { return f.catalog }
func (f *Flow) Stage() Stage      { return f.stage }
func (f *Flow) View() View        { return f.view }

// restart begins a fresh purchase journey from the given choices. Both
// select operations go through here.
func (f *Flow) restart(property *int, city *City) {
	if property != nil && city != nil {
		f.stage = Designing{Property: *property, City: *city}
		return
	}
	f.stage = Browsing{Property: property, City: city}
}

// SelectProperty opens the detail view for id and makes it the purchase
// candidate, restarting the journey.
func (f *Flow) SelectProperty(id int) error {
	if _, ok := f.catalog.Property(id); !ok {
		return errors.Wrapf(ErrUnknownProperty, "id %d", id)
	}
	viewing := id
	f.viewing = &viewing
	candidate := id
	f.restart(&candidate, f.chosenCity())
	return nil
}

// CloseDetail hides the detail view. An in-flight request keeps running.
func (f *Flow) CloseDetail() { f.viewing = nil }

// SelectCity records the departure city, returns to the catalog and
// restarts the journey.
func (f *Flow) SelectCity(c City) {
	f.view = ViewCatalog
	city := c
	f.restart(f.candidateID(), &city)
}

func (f *Flow) OpenMap()       { f.view = ViewMap }
func (f *Flow) BackToCatalog() { f.view = ViewCatalog }

// BeginImageRequest reports whether a gateway call should be issued for id.
// It refuses when the property already has a render or a request for it is
// in flight.
func (f *Flow) BeginImageRequest(id int) (Property, bool) {
	p, ok := f.catalog.Property(id)
	if !ok || p.Generated || f.inFlight[id] {
		return Property{}, false
	}
	f.inFlight[id] = true
	delete(f.failures, id)
	return p, true
}

// CompleteImageRequest lands a gateway result. Failures are remembered for
// inline display and leave the catalog untouched; success applies the render
// even if the detail view was closed meanwhile. Viewed and candidate
// properties are tracked by id, so they reflect the update immediately.
func (f *Flow) CompleteImageRequest(id int, ref ImageRef, err error) (bool, error) {
	delete(f.inFlight, id)
	if err != nil {
		f.failures[id] = err
		return false, nil
	}
	if ref.Empty() {
		f.failures[id] = ErrNoImage
		return false, nil
	}
	return f.catalog.ApplyImage(id, ref)
}

// FinalizeDesign stores the design and moves on to payment. Calls that
// arrive after the journey restarted are ignored.
func (f *Flow) FinalizeDesign(d AvatarDesign) bool {
	cur, ok := f.stage.(Designing)
	if !ok {
		return false
	}
	f.stage = Paying{Property: cur.Property, City: cur.City, Design: d}
	return true
}

// SubmitPayment marks the deposit submitted.
func (f *Flow) SubmitPayment() bool {
	cur, ok := f.stage.(Paying)
	if !ok {
		return false
	}
	f.stage = Confirmed{Property: cur.Property, City: cur.City, Design: cur.Design, Order: uuid.New()}
	return true
}

// Screen evaluates, in order: map view, designer, catalog.
func (f *Flow) Screen() Screen {
	if f.view == ViewMap {
		return ScreenMap
	}
	if _, ok := f.stage.(Designing); ok {
		return ScreenDesigner
	}
	return ScreenCatalog
}

// Panel is only meaningful on the catalog screen.
func (f *Flow) Panel() Panel {
	switch f.stage.(type) {
	case Paying:
		return PanelPayment
	case Confirmed:
		return PanelConfirmation
	}
	return PanelNone
}

// Viewing returns the property shown in the detail view, if any.
func (f *Flow) Viewing() (Property, bool) {
	if f.viewing == nil {
		return Property{}, false
	}
	return f.catalog.Property(*f.viewing)
}

// PurchaseCandidate returns the property chosen for purchase, if any.
func (f *Flow) PurchaseCandidate() (Property, bool) {
	id := f.candidateID()
	if id == nil {
		return Property{}, false
	}
	return f.catalog.Property(*id)
}

// City returns the chosen departure city, if any.
func (f *Flow) City() (City, bool) {
	c := f.chosenCity()
	if c == nil {
		return City{}, false
	}
	return *c, true
}

// Design returns the finalized design, if any.
func (f *Flow) Design() (AvatarDesign, bool) {
	switch s := f.stage.(type) {
	case Paying:
		return s.Design, true
	case Confirmed:
		return s.Design, true
	}
	return AvatarDesign{}, false
}

func (f *Flow) DesignFinalized() bool {
	_, ok := f.Design()
	return ok
}

func (f *Flow) DesignerActive() bool {
	_, ok := f.stage.(Designing)
	return ok
}

func (f *Flow) PaymentSubmitted() bool {
	_, ok := f.stage.(Confirmed)
	return ok
}

// Generating reports an outstanding request for id.
func (f *Flow) Generating(id int) bool { return f.inFlight[id] }

// InFlight counts outstanding gateway requests.
func (f *Flow) InFlight() int { return len(f.inFlight) }

// GenerationError returns the last failure for id; cleared on retry.
func (f *Flow) GenerationError(id int) error { return f.failures[id] }

func (f *Flow) candidateID() *int {
	var id int
	switch s := f.stage.(type) {
	case Browsing:
		if s.Property == nil {
			return nil
		}
		id = *s.Property
	case Designing:
		id = s.Property
	case Paying:
		id = s.Property
	case Confirmed:
		id = s.Property
	default:
		return nil
	}
	return &id
}

func (f *Flow) chosenCity() *City {
	var c City
	switch s := f.stage.(type) {
	case Browsing:
		if s.City == nil {
			return nil
		}
		c = *s.City
	case Designing:
		c = s.City
	case Paying:
		c = s.City
	case Confirmed:
		c = s.City
	default:
		return nil
	}
	return &c
}
