package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSelectionCloneIsDeep(t *testing.T) {
	g, o := uuid.New(), uuid.New()
	orig := Selection{{GroupID: g, OptionIDs: []uuid.UUID{o}}}

	cp := orig.Clone()
	cp[0].OptionIDs[0] = uuid.New()
	cp = append(cp, SelectedCustomization{GroupID: uuid.New()})

	assert.Equal(t, o, orig[0].OptionIDs[0])
	assert.Len(t, orig, 1)
	assert.Nil(t, Selection(nil).Clone())
}

func TestSelectionIndex(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := Selection{{GroupID: a}, {GroupID: b}}
	assert.Equal(t, 1, s.Index(b))
	assert.Equal(t, -1, s.Index(uuid.New()))
}

func TestProductLookups(t *testing.T) {
	opt := CustomizationOption{ID: uuid.New(), Name: "Large", Price: decimal.NewFromInt(2)}
	group := CustomizationGroup{ID: uuid.New(), Name: "Size", Options: []CustomizationOption{opt}}
	p := Product{CustomizationGroups: []CustomizationGroup{group}}

	got, ok := p.Group(group.ID)
	assert.True(t, ok)
	assert.Equal(t, "Size", got.Name)

	_, ok = p.Group(uuid.New())
	assert.False(t, ok)

	o, ok := got.Option(opt.ID)
	assert.True(t, ok)
	assert.True(t, o.Price.Equal(decimal.NewFromInt(2)))
}
