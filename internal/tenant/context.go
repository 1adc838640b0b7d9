// Package tenant carries the active client identity for one request as an
// explicit context value. It is set at request entry and travels with the
// context, so concurrent requests on a shared worker pool can never observe
// each other's client.
package tenant

import (
	"context"

	"github.com/google/uuid"

	"xmlprocessor/internal/models"
)

type contextKey struct{}

// WithClient returns a context carrying the given client.
func WithClient(ctx context.Context, client *models.Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

// FromContext returns the client carried by ctx, if any.
func FromContext(ctx context.Context) (*models.Client, bool) {
	client, ok := ctx.Value(contextKey{}).(*models.Client)
	return client, ok && client != nil
}

// ClientID returns the id of the client carried by ctx, or uuid.Nil when no
// client context is available.
func ClientID(ctx context.Context) uuid.UUID {
	if client, ok := FromContext(ctx); ok {
		return client.ID
	}
	return uuid.Nil
}
