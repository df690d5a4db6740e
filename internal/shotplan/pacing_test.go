package shotplan

import "testing"

func TestDerivePacing(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		characters   int
		wantDuration float64
		wantMotion   float64
		wantCut      bool
	}{
		{"quiet solo scene", "Mira reads by the window", 1, 5.0, 0.5, false},
		{"quiet pair", "two friends talk quietly", 2, 5.5, 0.5, false},
		{"action scene", "a chase through the market", 1, 5.5, 0.8, true},
		{"crowded action clamps to ceiling", "the battle erupts across the square", 6, 7.0, 0.8, true},
		{"crowd clamps without action", "the council convenes", 8, 7.0, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pacing := derivePacing(tt.description, tt.characters)
			if pacing.DurationSeconds != tt.wantDuration {
				t.Errorf("duration = %v, want %v", pacing.DurationSeconds, tt.wantDuration)
			}
			if pacing.MotionStrength != tt.wantMotion {
				t.Errorf("motion = %v, want %v", pacing.MotionStrength, tt.wantMotion)
			}
			wantTransition := "dissolve"
			if tt.wantCut {
				wantTransition = "cut"
			}
			if pacing.Transition != wantTransition {
				t.Errorf("transition = %s, want %s", pacing.Transition, wantTransition)
			}
			if pacing.DurationSeconds < MinClipSeconds || pacing.DurationSeconds > MaxClipSeconds {
				t.Errorf("duration %v outside [%v, %v]", pacing.DurationSeconds, MinClipSeconds, MaxClipSeconds)
			}
			if pacing.MotionStrength < minMotion || pacing.MotionStrength > maxMotion {
				t.Errorf("motion %v outside [%v, %v]", pacing.MotionStrength, minMotion, maxMotion)
			}
		})
	}
}
