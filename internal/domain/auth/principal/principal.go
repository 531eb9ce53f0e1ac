package principal

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
)

type principalContextKey struct{}

// With stores the verified principal in ctx.
func With(ctx context.Context, p model.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey{}, p)
}

// From returns the principal stored by the authentication gate.
func From(ctx context.Context) (model.Principal, bool) {
	if ctx == nil {
		return model.Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(model.Principal)
	return p, ok
}
