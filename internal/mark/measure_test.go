package mark

import "testing"

func TestMeasure(t *testing.T) {
	tests := []struct {
		name   string
		marks  map[string]float64
		want   float64
		wantOK bool
	}{
		{
			name:   "start and end",
			marks:  map[string]float64{"btn_start": 100, "btn_end": 150},
			want:   50,
			wantOK: true,
		},
		{
			name:   "end only falls back to absolute timing",
			marks:  map[string]float64{"btn_end": 420},
			want:   420,
			wantOK: true,
		},
		{
			name:   "start only",
			marks:  map[string]float64{"btn_start": 10},
			wantOK: false,
		},
		{
			name:   "no marks",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{}
			reg := NewRegistry(clock)
			// Set start before end so insertion mirrors real usage.
			for _, name := range []string{"btn_start", "btn_end"} {
				if ts, ok := tt.marks[name]; ok {
					clock.now = ts
					reg.SetMark(name)
				}
			}

			got := Measure(reg, "btn")
			if (got != nil) != tt.wantOK {
				t.Fatalf("Measure() = %v, wantOK %v", got, tt.wantOK)
			}
			if got != nil && *got != tt.want {
				t.Errorf("Measure() = %v, want %v", *got, tt.want)
			}
		})
	}
}
