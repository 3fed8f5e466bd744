package alert

import (
	"fmt"
	"sync"
	"testing"
)

func makeAlerts(n int) []Alert {
	alerts := make([]Alert, 0, n)
	for i := 0; i < n; i++ {
		alerts = append(alerts, Alert{
			EventID:     uint(i + 1),
			TrainNumber: "12345",
			CoachUID:    fmt.Sprintf("%d", 100+i),
			ChainStatus: "pulled",
		})
	}
	return alerts
}

func TestFilterDeliversAtMostOnce(t *testing.T) {
	c := NewCache()
	alerts := makeAlerts(3)

	first := c.Filter(alerts)
	if len(first) != 3 {
		t.Fatalf("first poll: expected 3 alerts, got %d", len(first))
	}

	second := c.Filter(alerts)
	if len(second) != 0 {
		t.Errorf("second poll: expected 0 alerts, got %d", len(second))
	}

	if c.Size() != 3 {
		t.Errorf("expected 3 delivered markers, got %d", c.Size())
	}
}

func TestFilterDistinguishesEvents(t *testing.T) {
	c := NewCache()

	a := Alert{EventID: 1, TrainNumber: "12345", CoachUID: "101"}
	b := Alert{EventID: 2, TrainNumber: "12345", CoachUID: "101"}

	if got := c.Filter([]Alert{a}); len(got) != 1 {
		t.Fatalf("expected first event delivered, got %d alerts", len(got))
	}
	// Same coach, newer event: a fresh key, so it passes through.
	if got := c.Filter([]Alert{b}); len(got) != 1 {
		t.Errorf("expected second event delivered, got %d alerts", len(got))
	}
}

func TestResetReopensDelivery(t *testing.T) {
	c := NewCache()
	alerts := makeAlerts(2)

	c.Filter(alerts)
	c.Reset()

	if c.Size() != 0 {
		t.Fatalf("expected empty marker set after reset, got %d", c.Size())
	}
	if got := c.Filter(alerts); len(got) != 2 {
		t.Errorf("expected full redelivery after reset, got %d alerts", len(got))
	}
}

// TestConcurrentPollers verifies that racing pollers never claim the same
// alert twice.
func TestConcurrentPollers(t *testing.T) {
	c := NewCache()
	alerts := makeAlerts(10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	delivered := make(map[string]int)

	numPollers := 8
	for i := 0; i < numPollers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				fresh := c.Filter(alerts)
				mu.Lock()
				for _, a := range fresh {
					delivered[a.Key()]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(delivered) != len(alerts) {
		t.Errorf("expected %d distinct alerts delivered, got %d", len(alerts), len(delivered))
	}
	for key, count := range delivered {
		if count != 1 {
			t.Errorf("alert %s delivered %d times, expected exactly once", key, count)
		}
	}
}
