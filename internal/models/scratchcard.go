package models

import "errors"

// ErrCardState indicates a scratch-card transition that would violate the
// unscratched -> scratched -> redeemed progression.
var ErrCardState = errors.New("models: invalid scratch card state transition")

// ScratchCard is a reward coupon with a one-way reveal. Scratched and
// Redeemed are 0/1 ordinals upstream; a redeemed card is always scratched.
type ScratchCard struct {
	ID         string  `json:"_id"`
	Phone      string  `json:"phone"`
	Amount     Decimal `json:"amount"`
	Validity   int     `json:"validity"`
	Scratched  Flag    `json:"scratched"`
	Redeemed   Flag    `json:"redeemed"`
	CouponCode string  `json:"coupon_code"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// Consistent reports whether the card satisfies the monotonicity invariant:
// redeemed implies scratched.
func (s ScratchCard) Consistent() bool {
	return !s.Redeemed.Bool() || s.Scratched.Bool()
}

// CanScratch reports whether the reveal action is still available.
func (s ScratchCard) CanScratch() bool {
	return !s.Scratched.Bool()
}

// CanRedeem reports whether the redeem action is available. Redeeming
// requires a prior scratch and is itself one-way.
func (s ScratchCard) CanRedeem() bool {
	return s.Scratched.Bool() && !s.Redeemed.Bool()
}

// Scratch applies the reveal transition.
func (s *ScratchCard) Scratch() error {
	if !s.CanScratch() {
		return ErrCardState
	}
	s.Scratched = 1
	return nil
}

// Redeem applies the redeem transition.
func (s *ScratchCard) Redeem() error {
	if !s.CanRedeem() {
		return ErrCardState
	}
	s.Redeemed = 1
	return nil
}
