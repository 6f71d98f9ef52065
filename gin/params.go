package gin

import (
	"context"
)

type contextKey string

const paramsContextKey contextKey = "params"

// Params returns the route parameters of the request ctx belongs to, or an
// empty map outside of a registered handler.
func Params(ctx context.Context) map[string]string {
	params, ok := ctx.Value(paramsContextKey).(map[string]string)
	if !ok {
		return map[string]string{}
	}
	return params
}

// Param returns the route parameter key, or "" if it is not set.
func Param(ctx context.Context, key string) string {
	return Params(ctx)[key]
}
