package pricing

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/metrics"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	product  types.Product
	size     types.CustomizationGroup
	toppings types.CustomizationGroup
	small    types.CustomizationOption
	large    types.CustomizationOption
	cheese   types.CustomizationOption
	olives   types.CustomizationOption
}

func newFixture() fixture {
	f := fixture{
		small:  types.CustomizationOption{ID: uuid.New(), Name: "Small", Price: dec("0")},
		large:  types.CustomizationOption{ID: uuid.New(), Name: "Large", Price: dec("2.00")},
		cheese: types.CustomizationOption{ID: uuid.New(), Name: "Extra cheese", Price: dec("1.00")},
		olives: types.CustomizationOption{ID: uuid.New(), Name: "Olives", Price: dec("1.50")},
	}
	f.size = types.CustomizationGroup{ID: uuid.New(), Name: "Size", Required: true, Options: []types.CustomizationOption{f.small, f.large}}
	f.toppings = types.CustomizationGroup{ID: uuid.New(), Name: "Toppings", Multiple: true, Options: []types.CustomizationOption{f.cheese, f.olives}}
	f.product = types.Product{
		ID:                  uuid.New(),
		Name:                "Margherita",
		BasePrice:           dec("8.00"),
		CustomizationGroups: []types.CustomizationGroup{f.size, f.toppings},
	}
	return f
}

func TestComputeUnitPriceBaseOnly(t *testing.T) {
	f := newFixture()
	assert.True(t, ComputeUnitPrice(f.product, nil).Equal(dec("8.00")))
}

func TestComputeUnitPriceAddsDeltas(t *testing.T) {
	f := newFixture()
	sel := types.Selection{
		{GroupID: f.size.ID, OptionIDs: []uuid.UUID{f.large.ID}},
		{GroupID: f.toppings.ID, OptionIDs: []uuid.UUID{f.cheese.ID, f.olives.ID}},
	}
	assert.True(t, ComputeUnitPrice(f.product, sel).Equal(dec("12.50")))
}

func TestComputeUnitPriceSkipsStaleRefs(t *testing.T) {
	f := newFixture()
	unknownGroup := uuid.New()
	unknownOption := uuid.New()
	sel := types.Selection{
		{GroupID: f.size.ID, OptionIDs: []uuid.UUID{f.large.ID, unknownOption}},
		{GroupID: unknownGroup, OptionIDs: []uuid.UUID{f.cheese.ID}},
		{GroupID: f.toppings.ID, OptionIDs: []uuid.UUID{f.large.ID}},
	}

	var stale []StaleRef
	price := ComputeUnitPriceReporting(f.product, sel, ReporterFunc(func(ref StaleRef) {
		stale = append(stale, ref)
	}))

	assert.True(t, price.Equal(dec("10.00")), "got %s", price)
	require.Len(t, stale, 3)
	assert.Equal(t, StaleRef{ProductID: f.product.ID, GroupID: f.size.ID, OptionID: unknownOption}, stale[0])
	assert.Equal(t, unknownGroup, stale[1].GroupID)
	assert.Equal(t, f.toppings.ID, stale[2].GroupID, "option from another group is not resolvable here")
}

func TestComputeUnitPriceIgnoresEntryOrder(t *testing.T) {
	f := newFixture()
	a := types.Selection{
		{GroupID: f.size.ID, OptionIDs: []uuid.UUID{f.large.ID}},
		{GroupID: f.toppings.ID, OptionIDs: []uuid.UUID{f.olives.ID}},
	}
	b := types.Selection{a[1], a[0]}
	assert.True(t, ComputeUnitPrice(f.product, a).Equal(ComputeUnitPrice(f.product, b)))
}

func TestComputeUnitPriceNeverDecreasesAsOptionsAreAdded(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	product := types.Product{ID: uuid.New(), Name: "Bowl", BasePrice: dec("6.50")}
	for g := 0; g < 3; g++ {
		group := types.CustomizationGroup{ID: uuid.New(), Name: fmt.Sprintf("group-%d", g), Multiple: true}
		for o := 0; o < 4; o++ {
			cents := rng.IntN(400)
			if o == 0 {
				cents = 0
			}
			group.Options = append(group.Options, types.CustomizationOption{
				ID:    uuid.New(),
				Name:  fmt.Sprintf("option-%d-%d", g, o),
				Price: decimal.New(int64(cents), -2),
			})
		}
		product.CustomizationGroups = append(product.CustomizationGroups, group)
	}

	type pick struct {
		group  uuid.UUID
		option uuid.UUID
	}
	var picks []pick
	for _, group := range product.CustomizationGroups {
		for _, opt := range group.Options {
			picks = append(picks, pick{group: group.ID, option: opt.ID})
		}
	}
	rng.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })

	sel := types.Selection{}
	prev := ComputeUnitPrice(product, sel)
	require.True(t, prev.Equal(product.BasePrice))
	for step, p := range picks {
		if idx := sel.Index(p.group); idx >= 0 {
			sel[idx].OptionIDs = append(sel[idx].OptionIDs, p.option)
		} else {
			sel = append(sel, types.SelectedCustomization{GroupID: p.group, OptionIDs: []uuid.UUID{p.option}})
		}
		next := ComputeUnitPrice(product, sel)
		require.Truef(t, next.GreaterThanOrEqual(prev), "step %d: price dropped from %s to %s", step, prev, next)
		prev = next
	}

	want := product.BasePrice
	for _, group := range product.CustomizationGroups {
		for _, opt := range group.Options {
			want = want.Add(opt.Price)
		}
	}
	assert.True(t, prev.Equal(want), "got %s want %s", prev, want)
}

func TestDescribeSelection(t *testing.T) {
	f := newFixture()
	sel := types.Selection{
		{GroupID: f.toppings.ID, OptionIDs: []uuid.UUID{f.olives.ID, uuid.New()}},
		{GroupID: f.size.ID, OptionIDs: []uuid.UUID{f.large.ID}},
	}

	views := DescribeSelection(f.product, sel)
	require.Len(t, views, 2)
	assert.Equal(t, "Toppings", views[0].Group)
	assert.Equal(t, "Olives", views[0].Option)
	assert.True(t, views[0].PriceDelta.Equal(dec("1.50")))
	assert.Equal(t, "Size", views[1].Group)
	assert.Equal(t, "Large", views[1].Option)

	assert.Empty(t, DescribeSelection(f.product, nil))
}

func TestStaleLoggerLogsAndCounts(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf, Format: "json"})
	reg := prometheus.NewRegistry()
	m := metrics.NewStorefrontMetrics(reg)

	f := newFixture()
	reporter := NewStaleLogger(logg, m).Bind(context.Background(), "price")
	ComputeUnitPriceReporting(f.product, types.Selection{{GroupID: uuid.New(), OptionIDs: []uuid.UUID{uuid.New()}}}, reporter)

	assert.Contains(t, buf.String(), "ignoring stale customization reference")
	assert.Contains(t, buf.String(), `"source":"price"`)
	count, err := testutil.GatherAndCount(reg, "cart_stale_option_refs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
