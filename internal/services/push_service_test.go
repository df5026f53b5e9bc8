package services

import "testing"

func TestShouldRecordDelivery(t *testing.T) {
	tests := []struct {
		name          string
		subscriptions int
		delivered     int
		want          bool
	}{
		{"no subscriptions still records the feed entry", 0, 0, true},
		{"one of several pushes suffices", 3, 1, true},
		{"all pushes delivered", 2, 2, true},
		{"every push failed keeps the alarm unsent", 2, 0, false},
		{"single subscription failing keeps the alarm unsent", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRecordDelivery(tt.subscriptions, tt.delivered); got != tt.want {
				t.Errorf("shouldRecordDelivery(%d, %d) = %v, want %v",
					tt.subscriptions, tt.delivered, got, tt.want)
			}
		})
	}
}
