package httpapi

import (
	"context"

	"github.com/dmitrijs2005/contactshare/internal/server/auth"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
)

type ctxKey string

const (
	claimsKey  ctxKey = "claims"
	contactKey ctxKey = "contact"
)

func withClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

func userIDFrom(ctx context.Context) string {
	if c := claimsFrom(ctx); c != nil {
		return c.UserID
	}
	return ""
}

func withContact(ctx context.Context, c *models.Contact) context.Context {
	return context.WithValue(ctx, contactKey, c)
}

func contactFrom(ctx context.Context) *models.Contact {
	c, _ := ctx.Value(contactKey).(*models.Contact)
	return c
}
