package nitrogen

import (
	"errors"
	"math"
	"testing"
)

func TestCanApplyHousingReduction(t *testing.T) {
	tests := []struct {
		name        string
		percent     float64
		wantAllowed bool
		wantReason  string
	}{
		{name: "zero", percent: 0, wantAllowed: true},
		{name: "slider default", percent: 5, wantAllowed: true},
		{name: "full removal", percent: 100, wantAllowed: true},
		{
			name:        "negative",
			percent:     -1,
			wantAllowed: false,
			wantReason:  "housing reduction -1% outside [0, 100]",
		},
		{
			name:        "above hundred",
			percent:     100.5,
			wantAllowed: false,
			wantReason:  "housing reduction 100.5% outside [0, 100]",
		},
		{
			name:        "not a number",
			percent:     math.NaN(),
			wantAllowed: false,
			wantReason:  "housing reduction must be a finite number, got NaN",
		},
		{
			name:        "infinite",
			percent:     math.Inf(1),
			wantAllowed: false,
			wantReason:  "housing reduction must be a finite number, got +Inf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanApplyHousingReduction(tt.percent)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if !errors.Is(result.Error(), ErrInvalidParameter) {
					t.Errorf("Error() = %v, want ErrInvalidParameter", result.Error())
				}
			} else if result.Error() != nil {
				t.Errorf("Error() = %v, want nil", result.Error())
			}
		})
	}
}
