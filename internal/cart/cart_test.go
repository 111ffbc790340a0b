package cart

import (
	"errors"
	"testing"
)

func line(id string, price float64) Line {
	return Line{ProductID: id, Title: "Laptop " + id, UnitPrice: price}
}

func TestAddItemDistinctProducts(t *testing.T) {
	c := New()
	if err := c.AddItem(line("p1", 45999), 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if err := c.AddItem(line("p2", 52499), 3); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if got := c.ItemCount(); got != 4 {
		t.Fatalf("expected item count 4, got %d", got)
	}
	if got := len(c.Snapshot()); got != 2 {
		t.Fatalf("expected 2 lines, got %d", got)
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 45999), 1)
	_ = c.AddItem(line("p1", 45999), 1)

	lines := c.Snapshot()
	if len(lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", lines[0].Quantity)
	}
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	c := New()
	if err := c.AddItem(line("p1", 100), 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should be unchanged after rejected add")
	}
}

func TestSetQuantityZeroOrNegativeFails(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 100), 2)

	for _, quantity := range []int{0, -3} {
		if err := c.SetQuantity("p1", quantity); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity for quantity=%d, got %v", quantity, err)
		}
	}

	if got := c.Snapshot()[0].Quantity; got != 2 {
		t.Fatalf("expected quantity to stay 2, got %d", got)
	}
}

func TestSetQuantityOverwrites(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 100), 2)
	if err := c.SetQuantity("p1", 5); err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if got := c.Snapshot()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestSetQuantityAbsentProductIsNoop(t *testing.T) {
	c := New()
	if err := c.SetQuantity("missing", 3); err != nil {
		t.Fatalf("expected no error for absent product, got %v", err)
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should stay empty")
	}
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 100), 1)

	c.RemoveItem("missing")

	if got := c.ItemCount(); got != 1 {
		t.Fatalf("expected item count 1, got %d", got)
	}
}

func TestRemoveItemDeletesLine(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 100), 1)
	_ = c.AddItem(line("p2", 200), 2)

	c.RemoveItem("p1")

	lines := c.Snapshot()
	if len(lines) != 1 || lines[0].ProductID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", lines)
	}
}

func TestSubtotal(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 45999), 1)
	_ = c.AddItem(line("p2", 1000), 3)

	if got := c.Subtotal(); got != 48999 {
		t.Fatalf("expected subtotal 48999, got %v", got)
	}
}

func TestSnapshotIsImmuneToLaterMutation(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 100), 1)

	snapshot := c.Snapshot()
	_ = c.SetQuantity("p1", 9)
	c.Clear()

	if len(snapshot) != 1 || snapshot[0].Quantity != 1 {
		t.Fatalf("snapshot changed after cart mutation: %+v", snapshot)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	c := New()
	_ = c.AddItem(line("p1", 100), 2)

	c.Clear()

	if c.ItemCount() != 0 || c.Subtotal() != 0 {
		t.Fatal("expected empty cart after Clear")
	}
}
