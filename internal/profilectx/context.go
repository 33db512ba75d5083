package profilectx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// profileKey is the request context key for the authenticated profile ID.
type profileKey struct{}

// WithProfileID stores the profile ID in the context.
func WithProfileID(ctx context.Context, profileID snowflake.ID) context.Context {
	return context.WithValue(ctx, profileKey{}, profileID)
}

// ProfileIDFromContext returns the profile ID from context, if set.
func ProfileIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(profileKey{}).(type) {
	case snowflake.ID:
		return typed, true
	case int64:
		return snowflake.ID(typed), true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
