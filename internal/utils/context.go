package utils

import "context"

type contextKey string

const (
	SellerIDKey    contextKey = "seller_id"
	SellerEmailKey contextKey = "email"
	SellerRoleKey  contextKey = "role"
)

// SetSellerContext sets authenticated seller info into context (called by middleware).
func SetSellerContext(ctx context.Context, id uint, email string, role string) context.Context {
	ctx = context.WithValue(ctx, SellerIDKey, id)
	ctx = context.WithValue(ctx, SellerEmailKey, email)
	ctx = context.WithValue(ctx, SellerRoleKey, role)
	return ctx
}

func GetSellerIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(SellerIDKey).(uint)
	return id, ok
}

func GetSellerEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(SellerEmailKey).(string)
	return email
}

func GetSellerRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(SellerRoleKey).(string)
	return role
}
