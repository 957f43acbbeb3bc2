package models

import (
	"errors"
	"testing"
)

func TestScratchCardProgression(t *testing.T) {
	card := ScratchCard{ID: "c1"}

	if !card.CanScratch() {
		t.Fatal("fresh card should be scratchable")
	}
	if card.CanRedeem() {
		t.Fatal("unscratched card must not be redeemable")
	}
	if errRedeem := card.Redeem(); !errors.Is(errRedeem, ErrCardState) {
		t.Fatalf("redeem before scratch: expected ErrCardState, got %v", errRedeem)
	}

	if errScratch := card.Scratch(); errScratch != nil {
		t.Fatalf("scratch failed: %v", errScratch)
	}
	if errScratch := card.Scratch(); !errors.Is(errScratch, ErrCardState) {
		t.Fatalf("second scratch: expected ErrCardState, got %v", errScratch)
	}

	if !card.CanRedeem() {
		t.Fatal("scratched card should be redeemable")
	}
	if errRedeem := card.Redeem(); errRedeem != nil {
		t.Fatalf("redeem failed: %v", errRedeem)
	}
	if errRedeem := card.Redeem(); !errors.Is(errRedeem, ErrCardState) {
		t.Fatalf("second redeem: expected ErrCardState, got %v", errRedeem)
	}

	if !card.Consistent() {
		t.Fatal("redeemed card must remain consistent")
	}
}

func TestScratchCardConsistent(t *testing.T) {
	cases := []struct {
		scratched Flag
		redeemed  Flag
		want      bool
	}{
		{0, 0, true},
		{1, 0, true},
		{1, 1, true},
		{0, 1, false},
	}
	for _, tc := range cases {
		card := ScratchCard{Scratched: tc.scratched, Redeemed: tc.redeemed}
		if card.Consistent() != tc.want {
			t.Fatalf("scratched=%d redeemed=%d: expected consistent=%v", tc.scratched, tc.redeemed, tc.want)
		}
	}
}
