package store

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

func chair() models.ItemInput {
	return models.ItemInput{ID: 1, Name: "Chair", Category: "Furniture", UnitPrice: 20.0, Quantity: 10}
}

func TestCreateThenRestock(t *testing.T) {
	s := New()

	res, err := s.CreateOrRestock(chair())
	require.NoError(t, err)
	assert.False(t, res.Restocked)
	assert.Equal(t, 10, res.Item.Quantity)

	res, err = s.CreateOrRestock(models.ItemInput{ID: 1, Name: "Ignored", Category: "Cleaning", UnitPrice: 99, Quantity: 5})
	require.NoError(t, err)
	assert.True(t, res.Restocked)
	assert.Equal(t, 5, res.Added)
	assert.Equal(t, 15, res.Item.Quantity)

	assert.Equal(t, 1, s.Len())
	item, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Chair", item.Name)
	assert.Equal(t, models.CategoryFurniture, item.Category)
	assert.Equal(t, 20.0, item.UnitPrice)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input models.ItemInput
	}{
		{"empty name", models.ItemInput{ID: 1, Name: "  ", Quantity: 1}},
		{"negative price", models.ItemInput{ID: 1, Name: "Pen", UnitPrice: -1}},
		{"negative quantity", models.ItemInput{ID: 1, Name: "Pen", Quantity: -1}},
		{"non-positive id", models.ItemInput{ID: 0, Name: "Pen"}},
		{"line break in name", models.ItemInput{ID: 1, Name: "Desk\nLamp", Quantity: 1}},
		{"carriage return in name", models.ItemInput{ID: 1, Name: "Desk\rLamp", Quantity: 1}},
		{"tab in name", models.ItemInput{ID: 1, Name: "Desk\tLamp", Quantity: 1}},
		{"NaN price", models.ItemInput{ID: 1, Name: "Pen", UnitPrice: math.NaN()}},
		{"infinite price", models.ItemInput{ID: 1, Name: "Pen", UnitPrice: math.Inf(1)}},
		{"negative infinite price", models.ItemInput{ID: 1, Name: "Pen", UnitPrice: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			_, err := s.CreateOrRestock(tt.input)
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, s.Len())
		})
	}
}

func TestRestockRejectsNegativeQuantity(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(chair())
	require.NoError(t, err)

	_, err = s.CreateOrRestock(models.ItemInput{ID: 1, Quantity: -3})
	require.ErrorIs(t, err, ErrValidation)

	item, _ := s.Get(1)
	assert.Equal(t, 10, item.Quantity)
}

func TestCreateCoercesCategory(t *testing.T) {
	s := New()
	res, err := s.CreateOrRestock(models.ItemInput{ID: 2, Name: "Mop", Category: "cleaning", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCleaning, res.Item.Category)

	res, err = s.CreateOrRestock(models.ItemInput{ID: 3, Name: "Yo-yo", Category: "Toys", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryGeneral, res.Item.Category)
}

func TestSell(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(chair())
	require.NoError(t, err)

	sale, err := s.Sell(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 60.0, sale.Total)
	assert.Equal(t, 7, sale.Item.Quantity)

	item, _ := s.Get(1)
	assert.Equal(t, 7, item.Quantity)
}

func TestSellInsufficientStockLeavesQuantity(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(chair())
	require.NoError(t, err)

	for _, q := range []int{11, 50} {
		_, err := s.Sell(1, q)
		require.ErrorIs(t, err, ErrInsufficientStock)

		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 10, stockErr.Available)
		assert.Equal(t, q, stockErr.Requested)
	}

	item, _ := s.Get(1)
	assert.Equal(t, 10, item.Quantity)
}

func TestSellEntireStock(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(chair())
	require.NoError(t, err)

	sale, err := s.Sell(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 200.0, sale.Total)
	assert.Zero(t, sale.Item.Quantity)

	item, _ := s.Get(1)
	assert.Zero(t, item.Quantity)
}

func TestSellZeroIsNoop(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(chair())
	require.NoError(t, err)

	sale, err := s.Sell(1, 0)
	require.NoError(t, err)
	assert.Zero(t, sale.Total)
	assert.Equal(t, 10, sale.Item.Quantity)

	item, _ := s.Get(1)
	assert.Equal(t, 10, item.Quantity)
}

func TestSellUnknownAndNegative(t *testing.T) {
	s := New()
	_, err := s.Sell(42, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateOrRestock(chair())
	require.NoError(t, err)
	_, err = s.Sell(1, -2)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteThenFind(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(chair())
	require.NoError(t, err)

	name, err := s.Delete(1)
	require.NoError(t, err)
	assert.Equal(t, "Chair", name)

	for _, item := range s.Find("") {
		assert.NotEqual(t, 1, item.ID)
	}
	assert.Empty(t, s.Find("chair"))

	_, err = s.Delete(1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindMatchesNameOrCategory(t *testing.T) {
	s := FromItems([]models.Item{
		{ID: 3, Name: "Desk Lamp", Category: models.CategoryElectronics, UnitPrice: 15, Quantity: 2},
		{ID: 1, Name: "Office Chair", Category: models.CategoryFurniture, UnitPrice: 80, Quantity: 4},
		{ID: 2, Name: "Stapler", Category: models.CategoryStationery, UnitPrice: 5, Quantity: 30},
	})

	got := s.Find("CHAIR")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)

	got = s.Find("furn")
	require.Len(t, got, 1)
	assert.Equal(t, "Office Chair", got[0].Name)

	got = s.Find("e")
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})

	assert.Empty(t, s.Find("printer"))
}

func TestAllRecordsReturnsCopies(t *testing.T) {
	s := FromItems([]models.Item{{ID: 1, Name: "Pen", Category: models.CategoryStationery, Quantity: 3}})

	all := s.AllRecords()
	all[0].Quantity = 999

	item, _ := s.Get(1)
	assert.Equal(t, 3, item.Quantity)
}

func TestFromItemsLaterDuplicateWins(t *testing.T) {
	s := FromItems([]models.Item{
		{ID: 1, Name: "Old", Quantity: 1},
		{ID: 1, Name: "New", Quantity: 2},
	})
	require.Equal(t, 1, s.Len())
	item, _ := s.Get(1)
	assert.Equal(t, "New", item.Name)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(models.ItemInput{ID: 1, Name: "Box", Quantity: 50})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		succeed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Sell(1, 1); err == nil {
				mu.Lock()
				succeed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	item, _ := s.Get(1)
	assert.Equal(t, 50, succeed)
	assert.Zero(t, item.Quantity)
}

func TestConcurrentSalesReportOwnRemaining(t *testing.T) {
	s := New()
	_, err := s.CreateOrRestock(models.ItemInput{ID: 1, Name: "Box", Quantity: 40})
	require.NoError(t, err)

	remaining := make(chan int, 40)
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sale, err := s.Sell(1, 1)
			if err == nil {
				remaining <- sale.Item.Quantity
			}
		}()
	}
	wg.Wait()
	close(remaining)

	seen := make(map[int]bool)
	for r := range remaining {
		assert.False(t, seen[r], "remaining %d reported twice", r)
		seen[r] = true
	}
	assert.Len(t, seen, 40)
	for r := 0; r < 40; r++ {
		assert.True(t, seen[r], "remaining %d never reported", r)
	}
}
