package orders

import "github.com/iliyamo/restaurant-pos/internal/model"

// Factory maps an order type to its strategy.
type Factory struct {
	strategies map[model.OrderType]Strategy
}

// NewFactory registers strategies by their Type. A later strategy for the
// same type replaces an earlier one.
func NewFactory(strategies ...Strategy) *Factory {
	f := &Factory{strategies: make(map[model.OrderType]Strategy, len(strategies))}
	for _, s := range strategies {
		f.strategies[s.Type()] = s
	}
	return f
}

// For returns the strategy of t or an UnsupportedTypeError.
func (f *Factory) For(t model.OrderType) (Strategy, error) {
	s, ok := f.strategies[t]
	if !ok {
		return nil, &UnsupportedTypeError{Type: t}
	}
	return s, nil
}
