package cell

import (
	"sync"
	"testing"
)

func TestCell_GetSet(t *testing.T) {
	c := New(1)
	if got := c.Get(); got != 1 {
		t.Errorf("Get() = %d, want 1", got)
	}
	if !c.Set(2) {
		t.Error("Set(2) should report a change")
	}
	if c.Set(2) {
		t.Error("Set(2) twice should not report a change")
	}
	if got := c.Get(); got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

func TestCell_NotifiesOnlyOnChange(t *testing.T) {
	c := New("a")
	var got []string
	c.Subscribe(func(v string) { got = append(got, v) })

	c.Set("a")
	c.Set("b")
	c.Set("b")
	c.Set("c")

	want := []string{"b", "c"}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notifications[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCell_IndependentUnsubscribe(t *testing.T) {
	c := New(0)
	var a, b int
	stopA := c.Subscribe(func(int) { a++ })
	stopB := c.Subscribe(func(int) { b++ })

	c.Set(1)
	stopA()
	stopA()
	c.Set(2)

	if a != 1 {
		t.Errorf("a = %d, want 1", a)
	}
	if b != 2 {
		t.Errorf("b = %d, want 2", b)
	}
	if c.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", c.Subscribers())
	}
	stopB()
	if c.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", c.Subscribers())
	}
}

func TestCell_SubscriptionOrder(t *testing.T) {
	c := New(0)
	var order []int
	for i := 0; i < 3; i++ {
		c.Subscribe(func(int) { order = append(order, i) })
	}
	c.Set(1)
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want [0 1 2]", order)
		}
	}
}

func TestCell_WithEquals(t *testing.T) {
	c := New(map[string]string{"id": "1"}).WithEquals(ShallowEqual[string, string])
	n := 0
	c.Subscribe(func(map[string]string) { n++ })

	c.Set(map[string]string{"id": "1"})
	if n != 0 {
		t.Errorf("equal map should not notify, got %d", n)
	}
	c.Set(map[string]string{"id": "2"})
	if n != 1 {
		t.Errorf("changed map should notify once, got %d", n)
	}
}

func TestCell_Update(t *testing.T) {
	c := New(10)
	if !c.Update(func(v int) int { return v + 1 }) {
		t.Error("Update should report a change")
	}
	if c.Update(func(v int) int { return v }) {
		t.Error("identity Update should not report a change")
	}
	if c.Get() != 11 {
		t.Errorf("Get() = %d, want 11", c.Get())
	}
}

func TestCell_DefaultEqualsDeep(t *testing.T) {
	c := New([]int{1, 2})
	if c.Set([]int{1, 2}) {
		t.Error("deeply equal slice should not be a change")
	}
	if !c.Set([]int{1, 3}) {
		t.Error("different slice should be a change")
	}
}

func TestCell_ConcurrentSet(t *testing.T) {
	c := New(0)
	var mu sync.Mutex
	seen := 0
	c.Subscribe(func(int) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			c.Set(v)
		}(i)
	}
	wg.Wait()

	if seen == 0 || seen > 50 {
		t.Errorf("seen = %d, want 1..50", seen)
	}
}

func TestCell_IDsAreUnique(t *testing.T) {
	if New(1).ID() == New(1).ID() {
		t.Error("cells should have unique ids")
	}
}

func TestShallowEqual(t *testing.T) {
	shared := []string{"x"}
	tests := []struct {
		name string
		a, b map[string]any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and empty", nil, map[string]any{}, true},
		{"same scalars", map[string]any{"a": 1, "b": "x"}, map[string]any{"a": 1, "b": "x"}, true},
		{"different value", map[string]any{"a": 1}, map[string]any{"a": 2}, false},
		{"different type", map[string]any{"a": 1}, map[string]any{"a": "1"}, false},
		{"missing key", map[string]any{"a": 1}, map[string]any{"b": 1}, false},
		{"same slice reference", map[string]any{"a": shared}, map[string]any{"a": shared}, true},
		{"equal slice copies", map[string]any{"a": []string{"x"}}, map[string]any{"a": []string{"x"}}, false},
		{"nil values", map[string]any{"a": nil}, map[string]any{"a": nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShallowEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ShallowEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShallowEqualSlices(t *testing.T) {
	eq := func(a, b int) bool { return a == b }
	if !ShallowEqualSlices([]int{1, 2}, []int{1, 2}, eq) {
		t.Error("equal slices should be equal")
	}
	if ShallowEqualSlices([]int{1}, []int{1, 2}, eq) {
		t.Error("different lengths should differ")
	}
}
