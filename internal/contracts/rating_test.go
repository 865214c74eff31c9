package contracts

import "testing"

func TestPeriodReturns_Resolved(t *testing.T) {
	v := 0.1

	tests := []struct {
		name    string
		returns PeriodReturns
		want    bool
	}{
		{
			name:    "all horizons present",
			returns: PeriodReturns{M3: &v, M6: &v, M9: &v, M12: &v},
			want:    true,
		},
		{
			name:    "missing longest horizon",
			returns: PeriodReturns{M3: &v, M6: &v, M9: &v},
			want:    false,
		},
		{
			name:    "missing shortest horizon",
			returns: PeriodReturns{M6: &v, M9: &v, M12: &v},
			want:    false,
		},
		{
			name:    "all absent",
			returns: PeriodReturns{},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.returns.Resolved(); got != tt.want {
				t.Errorf("Resolved() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHorizons(t *testing.T) {
	want := [4]int{3, 6, 9, 12}
	if Horizons != want {
		t.Errorf("Horizons = %v, want %v", Horizons, want)
	}
}
