// Package graph exposes the finance API over GraphQL.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"

	"finance4all/internal/logger"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 12

// NewSchema parses the embedded SDL against r. Every resolver signature is
// checked here, so a mismatch fails at startup rather than per request.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{}),
	)
}

// Decimal is the GraphQL scalar for money. It is written as a string so no
// precision is lost on the wire.
type Decimal struct {
	decimal.Decimal
}

func newDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// ImplementsGraphQLType maps the type to the Decimal scalar.
func (Decimal) ImplementsGraphQLType(name string) bool {
	return name == "Decimal"
}

// UnmarshalGraphQL accepts a string or a number.
func (d *Decimal) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid Decimal %q: %w", v, err)
		}
		d.Decimal = parsed
	case float64:
		d.Decimal = decimal.NewFromFloat(v)
	case int32:
		d.Decimal = decimal.NewFromInt32(v)
	case int:
		d.Decimal = decimal.NewFromInt(int64(v))
	default:
		return fmt.Errorf("wrong type for Decimal: %T", input)
	}
	return nil
}

// panicLogger routes resolver panics to the application logger.
type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger.Get().Errorw("graphql resolver panic", "panic", fmt.Sprint(value))
}
