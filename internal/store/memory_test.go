package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/closet/internal/model"
)

func TestMemorySelect(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sold := base.Add(time.Hour)

	m := NewMemory(
		model.InventoryRow{ID: "a", Name: "A", Status: model.StatusForSale, CreatedAt: base},
		model.InventoryRow{ID: "b", Name: "B", Status: model.StatusForSale, CreatedAt: base.Add(2 * time.Hour)},
		model.InventoryRow{ID: "c", Name: "C", Status: model.StatusSold, CreatedAt: base.Add(3 * time.Hour), SoldAt: &sold},
		model.InventoryRow{ID: "d", Name: "D", Status: model.StatusForSale, CreatedAt: base.Add(time.Hour)},
	)

	rows, err := m.Select(context.Background(), Query{
		Table:   InventoryTable,
		Columns: []string{ColID, ColStatus},
		Filter:  Filter{Column: ColStatus, Value: model.StatusForSale},
		OrderBy: ColCreatedAt,
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "b" || rows[1].ID != "d" {
		t.Errorf("unexpected rows %+v", rows)
	}
	if rows[0].Name != "" {
		t.Errorf("expected unselected name to be empty, got %q", rows[0].Name)
	}
	if m.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", m.Calls())
	}
}

func TestMemoryNullsLast(t *testing.T) {
	sold := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(
		model.InventoryRow{ID: "undated", Status: model.StatusSold},
		model.InventoryRow{ID: "dated", Status: model.StatusSold, SoldAt: &sold},
	)

	rows, _ := m.Select(context.Background(), Query{
		Table:   InventoryTable,
		Columns: []string{ColID},
		OrderBy: ColSoldAt,
	})
	if len(rows) != 2 || rows[0].ID != "dated" {
		t.Errorf("expected dated row first, got %+v", rows)
	}
}

func TestMemoryFailWith(t *testing.T) {
	m := NewMemory()
	boom := errors.New("connection refused")
	m.FailWith(boom)

	_, err := m.Select(context.Background(), Query{Table: InventoryTable, Columns: []string{ColID}})
	if !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}

	m.FailWith(nil)
	if _, err := m.Select(context.Background(), Query{Table: InventoryTable, Columns: []string{ColID}}); err != nil {
		t.Errorf("expected success after clearing failure, got %v", err)
	}
}
