package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MarketLimit caps a single order on one market. Zero values mean no cap.
type MarketLimit struct {
	MaxQuoteAmount decimal.Decimal
	MaxBaseQty     decimal.Decimal
}

// UnmarshalYAML accepts the limit values as strings or bare yaml numbers.
func (ml *MarketLimit) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxQuoteAmount any `yaml:"max_quote_amount"`
		MaxBaseQty     any `yaml:"max_base_qty"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	var err error
	if ml.MaxQuoteAmount, err = decodeLimit(raw.MaxQuoteAmount); err != nil {
		return fmt.Errorf("max_quote_amount: %w", err)
	}
	if ml.MaxBaseQty, err = decodeLimit(raw.MaxBaseQty); err != nil {
		return fmt.Errorf("max_base_qty: %w", err)
	}
	return nil
}

func decodeLimit(v any) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(fmt.Sprint(v))
}

// TradeLimits is an optional pre-trade safety net loaded from a yaml file,
// keyed by market symbol. A missing market means no limit for it.
type TradeLimits struct {
	Markets map[string]MarketLimit `yaml:"markets"`
}

func LoadTradeLimits(path string) (TradeLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TradeLimits{}, fmt.Errorf("read trade limits: %w", err)
	}

	var limits TradeLimits
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return TradeLimits{}, fmt.Errorf("parse trade limits: %w", err)
	}

	return limits, nil
}

func (tl TradeLimits) MarketLimit(symbol string) (MarketLimit, bool) {
	ml, ok := tl.Markets[symbol]
	return ml, ok
}
