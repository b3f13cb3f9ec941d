package extract

import "testing"

func TestTimeAccepted(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"24h", "18:30", "18:30"},
		{"24h single digit hour", "9:00", "09:00"},
		{"24h midnight", "0:00", "00:00"},
		{"12h pm", "6:30 pm", "18:30"},
		{"12h am", "9 am", "09:00"},
		{"12h noon", "12 pm", "12:00"},
		{"12h midnight", "12 am", "00:00"},
		{"12h with periods", "9:30 p.m.", "21:30"},
		{"compact", "9pm", "21:00"},
		{"compact with minutes", "930pm", "21:30"},
		{"uppercase meridiem", "6:30 PM", "18:30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hhmm, display, ok := Time(tc.input)
			if !ok {
				t.Fatalf("Time(%q) returned no match, want %q", tc.input, tc.want)
			}
			if hhmm != tc.want {
				t.Errorf("Time(%q) = %q, want %q", tc.input, hhmm, tc.want)
			}
			if display != hhmm {
				t.Errorf("Time(%q) display = %q, want same as normalized %q", tc.input, display, hhmm)
			}
		})
	}
}

func TestTimeRejected(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"hour out of 24h range", "25:00"},
		{"hour out of 12h range", "13 pm"},
		{"zero hour with meridiem", "0 pm"},
		{"minutes out of range", "18:75"},
		{"no separator no meridiem", "1830"},
		{"free text", "en la tarde"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if hhmm, _, ok := Time(tc.input); ok {
				t.Errorf("Time(%q) = %q, want no match", tc.input, hhmm)
			}
		})
	}
}
