package engine

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Receipt summarises a confirmed deposit.
type Receipt struct {
	Order    string
	Property string
	Tier     PriceTier
	Price    int
	City     string
	Design   AvatarDesign
	Issued   time.Time
}

// NewReceipt builds a receipt from the flow; it fails unless payment was
// submitted.
func NewReceipt(f *Flow, issued time.Time) (Receipt, error) {
	c, ok := f.Stage().(Confirmed)
	if !ok {
		return Receipt{}, errors.New("no confirmed deposit")
	}
	p, ok := f.Catalog().Property(c.Property)
	if !ok {
		return Receipt{}, errors.Wrapf(ErrUnknownProperty, "id %d", c.Property)
	}
	return Receipt{
		Order:    c.Order.String(),
		Property: p.Name,
		Tier:     p.Tier,
		Price:    p.Tier.Price(),
		City:     c.City.Name,
		Design:   c.Design,
		Issued:   issued,
	}, nil
}

// Lines is the order summary in display order.
func (r Receipt) Lines() [][2]string {
	return [][2]string{
		{"Order", r.Order},
		{"Condo Reservation", fmt.Sprintf("%s (%s Class)", r.Property, r.Tier)},
		{"Bespoke Meat Suit", "Included"},
		{"  Base", r.Design.Build},
		{"  Skin", r.Design.Skin},
		{"  Eyes", r.Design.Eyes},
		{"  Hair", r.Design.Hair},
		{"Teleporter Origin", r.City},
		{"Total Deposit", FormatBTC(r.Price)},
		{"Issued", r.Issued.Format(time.RFC1123)},
	}
}

// FormatBTC renders whole-coin prices the way the order summary shows them.
func FormatBTC(n int) string { return fmt.Sprintf("%d.00 BTC", n) }
