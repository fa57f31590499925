package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrFormIncomplete blocks submission while a required field is empty.
var ErrFormIncomplete = errors.New("payment form incomplete")

// PaymentForm collects the wallet address for the deposit. Property, city
// and design may be absent; the form then renders disabled.
type PaymentForm struct {
	Property   *Property
	City       *City
	Design     *AvatarDesign
	wallet     string
	submitting bool
}

// NewPaymentForm binds the form to whatever the flow currently holds.
func NewPaymentForm(f *Flow) *PaymentForm {
	pf := &PaymentForm{}
	if p, ok := f.PurchaseCandidate(); ok {
		pf.Property = &p
	}
	if c, ok := f.City(); ok {
		pf.City = &c
	}
	if d, ok := f.Design(); ok {
		pf.Design = &d
	}
	return pf
}

func (p *PaymentForm) Enabled() bool {
	return p.Property != nil && p.City != nil && p.Design != nil
}

// Price is the deposit for the bound property; 0 while disabled.
func (p *PaymentForm) Price() int {
	if p.Property == nil {
		return 0
	}
	return p.Property.Tier.Price()
}

func (p *PaymentForm) Wallet() string     { return p.wallet }
func (p *PaymentForm) Submitting() bool   { return p.submitting }
func (p *PaymentForm) SetWallet(s string) { p.wallet = s }

// CanSubmit gates only on presence; the address format is not checked.
func (p *PaymentForm) CanSubmit() bool {
	return p.Enabled() && strings.TrimSpace(p.wallet) != "" && !p.submitting
}

// BeginSubmit locks the form and returns the commitment to send.
func (p *PaymentForm) BeginSubmit() (Commitment, error) {
	if !p.CanSubmit() {
		return Commitment{}, ErrFormIncomplete
	}
	p.submitting = true
	return Commitment{
		Kind:     CommitDeposit,
		Property: p.Property.ID,
		City:     p.City.Name,
		Design:   *p.Design,
		Wallet:   strings.TrimSpace(p.wallet),
	}, nil
}

// CompleteSubmit unlocks the form after a failed commit; on success the flow
// moves on and the form is discarded.
func (p *PaymentForm) CompleteSubmit() {
	p.submitting = false
}
