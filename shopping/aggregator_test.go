package shopping

import (
	"context"
	"errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type fakeSource struct {
	lines map[uint][]Line
	err   error
	calls int
}

func (f *fakeSource) CartLinesForUser(_ context.Context, userID uint) ([]Line, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.lines[userID], nil
}

func twoRecipeCart() *fakeSource {
	return &fakeSource{lines: map[uint][]Line{
		1: {
			// recipe A
			{Name: "flour", Unit: "g", Amount: 200},
			{Name: "sugar", Unit: "g", Amount: 50},
			// recipe B
			{Name: "flour", Unit: "g", Amount: 100},
			{Name: "sugar", Unit: "ml", Amount: 50},
		},
	}}
}

func TestAggregateMergesByNameAndUnit(t *testing.T) {
	totals, err := Aggregate(context.Background(), twoRecipeCart(), 1)
	require.NoError(t, err)

	want := []Line{
		{Name: "flour", Unit: "g", Amount: 300},
		{Name: "sugar", Unit: "g", Amount: 50},
		{Name: "sugar", Unit: "ml", Amount: 50},
	}
	if diff := cmp.Diff(want, totals.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}

	amount, ok := totals.Amount(Key{Name: "flour", Unit: "g"})
	assert.True(t, ok)
	assert.Equal(t, uint(300), amount)

	_, ok = totals.Amount(Key{Name: "flour", Unit: "kg"})
	assert.False(t, ok)
}

func TestAggregateEmptyCart(t *testing.T) {
	totals, err := Aggregate(context.Background(), &fakeSource{}, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Len())
	assert.Empty(t, totals.Lines())
	assert.Empty(t, totals.Groups())
}

func TestAggregateIsIdempotent(t *testing.T) {
	source := twoRecipeCart()

	first, err := Aggregate(context.Background(), source, 1)
	require.NoError(t, err)
	second, err := Aggregate(context.Background(), source, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)
	if diff := cmp.Diff(first.Lines(), second.Lines()); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestAggregateSumsDuplicateRows(t *testing.T) {
	source := &fakeSource{lines: map[uint][]Line{
		7: {
			{Name: "egg", Unit: "pcs", Amount: 2},
			{Name: "egg", Unit: "pcs", Amount: 3},
		},
	}}

	totals, err := Aggregate(context.Background(), source, 7)
	require.NoError(t, err)
	assert.Equal(t, []Line{{Name: "egg", Unit: "pcs", Amount: 5}}, totals.Lines())
}

func TestAggregateSourceError(t *testing.T) {
	boom := errors.New("boom")

	totals, err := Aggregate(context.Background(), &fakeSource{err: boom}, 1)
	assert.Nil(t, totals)
	assert.ErrorIs(t, err, boom)
}

func TestTotalsKeepsFirstSeenOrder(t *testing.T) {
	totals := NewTotals()
	totals.Add(Line{Name: "salt", Unit: "g", Amount: 1})
	totals.Add(Line{Name: "apple", Unit: "pcs", Amount: 2})
	totals.Add(Line{Name: "salt", Unit: "g", Amount: 4})

	assert.Equal(t, []Line{
		{Name: "salt", Unit: "g", Amount: 5},
		{Name: "apple", Unit: "pcs", Amount: 2},
	}, totals.Lines())
}

func TestTotalsGroupsSorted(t *testing.T) {
	totals, err := Aggregate(context.Background(), &fakeSource{lines: map[uint][]Line{
		1: {
			{Name: "sugar", Unit: "ml", Amount: 50},
			{Name: "flour", Unit: "g", Amount: 300},
			{Name: "sugar", Unit: "g", Amount: 50},
		},
	}}, 1)
	require.NoError(t, err)

	want := []Group{
		{Name: "flour", Units: []UnitAmount{{Unit: "g", Amount: 300}}},
		{Name: "sugar", Units: []UnitAmount{{Unit: "g", Amount: 50}, {Unit: "ml", Amount: 50}}},
	}
	if diff := cmp.Diff(want, totals.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalsLinesIsACopy(t *testing.T) {
	totals := NewTotals()
	totals.Add(Line{Name: "milk", Unit: "ml", Amount: 100})

	lines := totals.Lines()
	lines[0].Amount = 1

	amount, _ := totals.Amount(Key{Name: "milk", Unit: "ml"})
	assert.Equal(t, uint(100), amount)
}
