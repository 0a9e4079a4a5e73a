// SPDX-License-Identifier: MPL-2.0

package tui

import "testing"

func TestConfirmOptionsNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		opts            ConfirmOptions
		wantAffirmative string
		wantNegative    string
	}{
		{
			name:            "defaults filled",
			opts:            ConfirmOptions{Title: "Continue?"},
			wantAffirmative: "Yes",
			wantNegative:    "No",
		},
		{
			name: "custom labels preserved",
			opts: ConfirmOptions{
				Affirmative: "Remove",
				Negative:    "Keep",
			},
			wantAffirmative: "Remove",
			wantNegative:    "Keep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.opts.normalize()
			if got.Affirmative != tt.wantAffirmative {
				t.Errorf("Affirmative = %q, want %q", got.Affirmative, tt.wantAffirmative)
			}
			if got.Negative != tt.wantNegative {
				t.Errorf("Negative = %q, want %q", got.Negative, tt.wantNegative)
			}
		})
	}
}
