package ui

import (
	"errors"
	"math"
	"testing"

	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/compose"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name        string
		v, min, max float64
		wantOK      bool
	}{
		{"inside", 5, 0, 10, true},
		{"lower bound", 0, 0, 10, true},
		{"upper bound", 10, 0, 10, true},
		{"below", -1, 0, 10, false},
		{"above", 11, 0, 10, false},
		{"nan", math.NaN(), 0, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateRange(tt.v, tt.min, tt.max)
			if res.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v (err %v)", res.OK(), tt.wantOK, res.Err)
			}
			if tt.wantOK {
				return
			}
			var se *summonerr.SummonError
			if !errors.As(res.Err, &se) || se.Code != "E040" {
				t.Errorf("Err = %v, want E040", res.Err)
			}
			if got := res.Or(-5); got != -5 {
				t.Errorf("Or() = %v, want fallback", got)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name       string
		value, max float64
		want       string
		wantOK     bool
	}{
		{"valid", 5, 10, `<progress max="10" value="5"></progress>`, true},
		{"clamped high", 12, 10, `<progress max="10" value="10"></progress>`, false},
		{"clamped low", -3, 10, `<progress max="10" value="0"></progress>`, false},
		{"default max", 0.25, 0, `<progress max="1" value="0.25"></progress>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res Result[float64]
			got := renderString(t, func(c *compose.Composer) {
				res = Progress(c, tt.value, tt.max, Modifier{})
			})
			if got != tt.want {
				t.Errorf("markup = %s, want %s", got, tt.want)
			}
			if res.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", res.OK(), tt.wantOK)
			}
		})
	}
}
