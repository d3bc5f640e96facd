package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tagsnap/tagsnap/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		money model.Money
	}{
		{name: "dollars", money: model.Money{Currency: "USD", Amount: 1.2245}, want: "$1.22"},
		{name: "euros", money: model.Money{Currency: "EUR", Amount: 93}, want: "€93.00"},
		{name: "lira", money: model.Money{Currency: "TRY", Amount: 39.5}, want: "₺39.50"},
		{name: "yen has no minor unit", money: model.Money{Currency: "JPY", Amount: 1280.4}, want: "¥1280"},
		{name: "won has no minor unit", money: model.Money{Currency: "KRW", Amount: 15000}, want: "₩15000"},
		{name: "unknown code falls back", money: model.Money{Currency: "XOF", Amount: 500}, want: "XOF 500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoney(tt.money); got != tt.want {
				t.Errorf("FormatMoney(%v) = %q, want %q", tt.money, got, tt.want)
			}
		})
	}
}

func TestFormatRate(t *testing.T) {
	got := FormatRate("TRY", "USD", 0.031)
	want := "1 TRY = 0.0310 USD"
	if got != want {
		t.Errorf("FormatRate = %q, want %q", got, want)
	}
}

func TestFormatPercentDiff(t *testing.T) {
	if got := FormatPercentDiff(-10.25); got != "-10.2%" {
		t.Errorf("negative diff = %q", got)
	}
	if got := FormatPercentDiff(15); got != "+15.0%" {
		t.Errorf("positive diff = %q", got)
	}
}

func TestCurrencyPrompter(t *testing.T) {
	t.Run("uppercases answer", func(t *testing.T) {
		var out bytes.Buffer
		p := NewCurrencyPrompter(strings.NewReader("usd\n"), &out)

		got, err := p.Prompt(context.Background(), "Target currency", "EUR", []string{"USD", "EUR"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "USD" {
			t.Errorf("got %q, want USD", got)
		}
	})

	t.Run("empty answer picks fallback", func(t *testing.T) {
		var out bytes.Buffer
		p := NewCurrencyPrompter(strings.NewReader("\n"), &out)

		got, err := p.Prompt(context.Background(), "Target currency", "EUR", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "EUR" {
			t.Errorf("got %q, want EUR", got)
		}
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		var out bytes.Buffer
		p := NewCurrencyPrompter(strings.NewReader("dollars\n"), &out)

		if _, err := p.Prompt(context.Background(), "Target currency", "", nil); err == nil {
			t.Fatal("expected error for malformed code")
		}
	})
}
