package series

import "testing"

func TestAppendKeepsChannelsEqual(t *testing.T) {
	s := New(3)
	s.Append([]float64{0, 1}, [][]float64{{1, 2}, {3, 4}, {5, 6}})

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	for ch := 0; ch < s.Channels(); ch++ {
		if got := len(s.Points(ch)); got != 2 {
			t.Errorf("channel %d len = %d, want 2", ch, got)
		}
	}
	if p := s.Points(2)[1]; p != (Point{X: 1, Y: 6}) {
		t.Errorf("Points(2)[1] = %+v", p)
	}
}

func TestAppendPanicsOnShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New(2).Append([]float64{0}, [][]float64{{1}})
}

func TestPointsReturnsCopy(t *testing.T) {
	s := New(1)
	s.Append([]float64{0}, [][]float64{{7}})
	pts := s.Points(0)
	pts[0].Y = 99
	if s.Points(0)[0].Y != 7 {
		t.Error("mutating Points result changed the set")
	}
	if s.Points(5) != nil {
		t.Error("out-of-range channel should be nil")
	}
}

func TestDropFrontAndRenumber(t *testing.T) {
	s := New(2)
	s.Append([]float64{0, 1, 2, 3}, [][]float64{{10, 11, 12, 13}, {20, 21, 22, 23}})

	if n := s.DropFront(3); n != 3 {
		t.Fatalf("DropFront(3) = %d", n)
	}
	if n := s.DropFront(5); n != 1 {
		t.Fatalf("DropFront beyond length = %d, want 1", n)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}

	s.Append([]float64{5, 6, 7}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	s.DropFront(1)
	s.Renumber(0.5)
	want := []Point{{0, 2}, {0.5, 3}}
	got := s.Points(0)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReplaceWith(t *testing.T) {
	visible := New(1)
	visible.Append([]float64{0}, [][]float64{{1}})
	buf := New(1)
	buf.Append([]float64{0, 1}, [][]float64{{8, 9}})

	visible.ReplaceWith(buf)

	if visible.Len() != 2 || visible.Points(0)[1].Y != 9 {
		t.Errorf("visible = %+v", visible.Points(0))
	}
	if buf.Len() != 0 {
		t.Errorf("buffer not cleared, len = %d", buf.Len())
	}
}

func TestOnChange(t *testing.T) {
	s := New(1)
	calls := 0
	cancel := s.OnChange(func() { calls++ })

	s.Append([]float64{0, 1}, [][]float64{{1, 2}})
	s.DropFront(1)
	s.DropFront(0) // no-op, no notification
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if s.Version() != 2 {
		t.Errorf("Version = %d, want 2", s.Version())
	}

	cancel()
	s.Clear()
	if calls != 2 {
		t.Errorf("listener called after cancel")
	}
}
