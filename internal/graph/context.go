package graph

import "context"

type rawVariablesKey struct{}

// withRawVariables stashes the request's uncoerced variables so resolvers
// can recover field presence that input coercion discards: a null-valued
// variable field never reaches the coerced argument map.
func withRawVariables(ctx context.Context, variables map[string]interface{}) context.Context {
	if variables == nil {
		return ctx
	}
	return context.WithValue(ctx, rawVariablesKey{}, variables)
}

func rawVariablesFrom(ctx context.Context) map[string]interface{} {
	if variables, ok := ctx.Value(rawVariablesKey{}).(map[string]interface{}); ok {
		return variables
	}
	return nil
}
