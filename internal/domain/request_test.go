package domain

import (
	"testing"
	"time"
)

func TestClampQuantityBounds(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-5, MinQuantity},
		{0, MinQuantity},
		{1, 1},
		{4, 4},
		{10, 10},
		{11, MaxQuantity},
		{100, MaxQuantity},
	}
	for _, tc := range cases {
		if got := ClampQuantity(tc.in); got != tc.want {
			t.Fatalf("ClampQuantity(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDefaultGenerationRequest(t *testing.T) {
	req := DefaultGenerationRequest()
	if req.Style != StyleProfessional {
		t.Fatalf("default style = %q, want %q", req.Style, StyleProfessional)
	}
	if req.FreeText != "" {
		t.Fatalf("default free text = %q, want empty", req.FreeText)
	}
	if req.Quantity != DefaultQuantity {
		t.Fatalf("default quantity = %d, want %d", req.Quantity, DefaultQuantity)
	}
}

func TestNormalizeStyle(t *testing.T) {
	cases := []struct {
		in   string
		want StyleChoice
	}{
		{"casual", StyleCasual},
		{" Creative ", StyleCreative},
		{"PROFESSIONAL", StyleProfessional},
		{"neon", StyleProfessional},
		{"", StyleProfessional},
	}
	for _, tc := range cases {
		if got := NormalizeStyle(tc.in); got != tc.want {
			t.Fatalf("NormalizeStyle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResultIDIncludesIndex(t *testing.T) {
	attempt := time.Now()
	a := ResultID(attempt, 0)
	b := ResultID(attempt, 1)
	if a == b {
		t.Fatalf("ids for distinct indexes collide: %q", a)
	}
}
