package model

import "testing"

func TestTriboolWithDefault(t *testing.T) {
	cases := []struct {
		name string
		t    Tribool
		def  Tribool
		want Tribool
	}{
		{"unset inherits", Unset, True, True},
		{"true stays true", True, False, True},
		{"false stays false", False, True, False},
		{"unset stays unset with unset default", Unset, Unset, Unset},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.t.WithDefault(c.def); got != c.want {
				t.Errorf("WithDefault() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestTriboolOverlay(t *testing.T) {
	cases := []struct {
		name   string
		higher Tribool
		lower  Tribool
		want   Tribool
	}{
		{"higher true wins", True, False, True},
		{"higher false wins", False, True, False},
		{"higher unset falls through", Unset, True, True},
		{"both unset", Unset, Unset, Unset},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.higher.Overlay(c.lower); got != c.want {
				t.Errorf("Overlay() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestTriboolBoolOr(t *testing.T) {
	if got := Unset.BoolOr(true); got != true {
		t.Errorf("BoolOr() = %v, want true", got)
	}
	if got := False.BoolOr(true); got != false {
		t.Errorf("BoolOr() = %v, want false", got)
	}
}
