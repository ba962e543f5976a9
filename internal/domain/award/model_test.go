package award_test

import (
	"testing"

	"saunaclub/internal/domain/award"
)

// TestAwardValidation tests validation of Award.
func TestAwardValidation(t *testing.T) {
	tests := []struct {
		name    string
		award   award.Award
		wantErr bool
	}{
		{"valid award", award.Award{ID: "a1", Name: "100 Aufgüsse", Icon: "🔥", Color: "gold"}, false},
		{"empty name", award.Award{ID: "a1", Name: " ", Icon: "🔥"}, true},
		{"empty icon", award.Award{ID: "a1", Name: "100 Aufgüsse"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.award.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Award.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
