package overlay

import (
	"strings"
	"testing"

	"github.com/tagsnap/tagsnap/internal/model"
)

func TestLayoutForKnownKeys(t *testing.T) {
	if got := LayoutFor("receipt"); got.Anchor != AnchorTopRight {
		t.Errorf("receipt anchor = %q, want %q", got.Anchor, AnchorTopRight)
	}
	if got := LayoutFor("menu"); got.PanelWidth != 52 {
		t.Errorf("menu width = %d, want 52", got.PanelWidth)
	}
}

func TestLayoutForUnknownKeyFallsBack(t *testing.T) {
	got := LayoutFor("poster")
	want := LayoutFor("default")
	if got != want {
		t.Errorf("unknown key layout = %+v, want default %+v", got, want)
	}
}

func TestPanelRenderShowsPrices(t *testing.T) {
	p := Panel{
		ProductName: "Wool Scarf",
		Original:    model.Money{Amount: 39.50, Currency: "TRY"},
		Converted:   model.Money{Amount: 1.22, Currency: "USD"},
		Rate:        0.031,
		LayoutKey:   "tag",
	}

	out := p.Render()
	for _, want := range []string{"Wool Scarf", "₺39.50", "$1.22", "0.0310"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestPanelRenderIdentityHidesRate(t *testing.T) {
	p := Panel{
		Original:  model.Money{Amount: 10, Currency: "USD"},
		Converted: model.Money{Amount: 10, Currency: "USD"},
		Rate:      1,
	}

	if out := p.Render(); strings.Contains(out, "1 USD =") {
		t.Errorf("identity conversion should not show a rate line:\n%s", out)
	}
}

func TestPanelRenderWithoutConversion(t *testing.T) {
	p := Panel{
		ProductName: "Wool Scarf",
		Original:    model.Money{Amount: 39.50, Currency: "TRY"},
	}

	out := p.Render()
	if strings.Contains(out, "≈") {
		t.Errorf("panel without a converted price should not show one:\n%s", out)
	}
	if !strings.Contains(out, "₺39.50") {
		t.Errorf("panel missing original price:\n%s", out)
	}
}

func TestPanelRenderItemCurrency(t *testing.T) {
	p := Panel{
		ProductName: "Ramen Yokocho",
		Original:    model.Money{Amount: 1400, Currency: "JPY"},
		Converted:   model.Money{Amount: 9.38, Currency: "USD"},
		Rate:        0.0067,
		LayoutKey:   "menu",
		Items: []model.LineItem{
			{Name: "Shoyu Ramen", Price: 950, Currency: "JPY", Category: "Noodles", Quantity: 1},
		},
	}

	if out := p.Render(); !strings.Contains(out, "¥950") {
		t.Errorf("item should render in its own currency:\n%s", out)
	}
}

func TestPanelRenderLineItemsAndComparisons(t *testing.T) {
	p := Panel{
		ProductName: "Mercado Central",
		Original:    model.Money{Amount: 29, Currency: "EUR"},
		Converted:   model.Money{Amount: 31.32, Currency: "USD"},
		Rate:        1.08,
		LayoutKey:   "receipt",
		Items: []model.LineItem{
			{Name: "Queso", Price: 8.50, Quantity: 2},
		},
		Comparisons: []model.Comparison{
			{ProductName: "Queso", Price: 7.90, Currency: "EUR", Source: "Bazaar", PercentDifference: -7.1},
		},
	}

	out := p.Render()
	for _, want := range []string{"Queso ×2", "Elsewhere", "Bazaar", "-7.1%"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}
