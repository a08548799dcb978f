package signals

import (
	"testing"
	"time"
)

func TestClampedInRange(t *testing.T) {
	f := Frame{Scup: 0.4, Entropy: 0.6, Heat: 0.2}
	c := f.Clamped()
	if c != f {
		t.Fatalf("in-range frame changed: %+v", c)
	}
}

func TestClampedOutOfRange(t *testing.T) {
	f := Frame{Scup: -0.5, Entropy: 1.7, Heat: 0.3}
	c := f.Clamped()
	if c.Scup != 0 {
		t.Fatalf("expected scup clamped to 0, got %f", c.Scup)
	}
	if c.Entropy != 1 {
		t.Fatalf("expected entropy clamped to 1, got %f", c.Entropy)
	}
	if c.Heat != 0.3 {
		t.Fatalf("heat should be untouched, got %f", c.Heat)
	}
}

func TestWindowEviction(t *testing.T) {
	w := NewWindow(3)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		w.Push(Frame{Entropy: float64(i) / 10, At: base.Add(time.Duration(i) * time.Second)})
	}
	if w.Len() != 3 {
		t.Fatalf("expected window length 3, got %d", w.Len())
	}
	last := w.Last(3)
	if last[0].Entropy != 0.2 || last[2].Entropy != 0.4 {
		t.Fatalf("unexpected window contents: %+v", last)
	}
}

func TestWindowLastPartial(t *testing.T) {
	w := NewWindow(10)
	w.Push(Frame{Scup: 0.1})
	got := w.Last(5)
	if len(got) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(got))
	}
	if w.Last(0) != nil {
		t.Fatal("Last(0) should be nil")
	}
}

func TestProducerStaysInRange(t *testing.T) {
	p := NewProducer(99, DefaultProducerConfig())
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		f := p.Next(at.Add(time.Duration(i) * time.Second))
		if f != f.Clamped() {
			t.Fatalf("tick %d out of range: %+v", i, f)
		}
	}
}

func TestProducerIsSeeded(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewProducer(7, DefaultProducerConfig())
	b := NewProducer(7, DefaultProducerConfig())
	for i := 0; i < 50; i++ {
		ts := at.Add(time.Duration(i) * time.Second)
		if a.Next(ts) != b.Next(ts) {
			t.Fatalf("seeded producers diverged at tick %d", i)
		}
	}
}
