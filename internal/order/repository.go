package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	FetchOrders(ctx context.Context, sellerID uint, filter *OrderFilterInput, limit, offset int32) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to OrderStatus, shipping *ShippingInfo) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, order *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, seller_id, buyer_name, buyer_phone,
			subtotal, shipping_fee, tax, total_amount,
			status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		order.ID,
		order.SellerID,
		order.BuyerName,
		order.BuyerPhone,
		order.Subtotal,
		order.ShippingFee,
		order.Tax,
		order.Total,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_name, quantity, unit_price, subtotal
			) VALUES ($1,$2,$3,$4,$5)
		`,
			order.ID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	query := `
		SELECT id, seller_id, buyer_name, buyer_phone,
		       subtotal, shipping_fee, tax, total_amount,
		       status, delivery_method, tracking_number, shipping_carrier,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	var method sql.NullString
	var tracking, carrier sql.NullString

	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID, &o.SellerID, &o.BuyerName, &o.BuyerPhone,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.Total,
		&o.Status, &method, &tracking, &carrier,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if method.Valid {
		m := DeliveryMethod(method.String)
		o.DeliveryMethod = &m
	}
	if tracking.Valid {
		o.TrackingNumber = &tracking.String
	}
	if carrier.Valid {
		o.ShippingCarrier = &carrier.String
	}

	items, err := r.fetchOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repository) fetchOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_name, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) FetchOrders(ctx context.Context, sellerID uint, filter *OrderFilterInput, limit, offset int32) ([]*Order, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT o.id, o.seller_id, o.buyer_name, o.buyer_phone,
		       o.subtotal, o.shipping_fee, o.tax, o.total_amount,
		       o.status, o.delivery_method, o.tracking_number, o.shipping_carrier,
		       o.created_at, o.updated_at
		FROM orders o
		WHERE o.seller_id = $1`)

	args := []interface{}{sellerID}

	if filter != nil {
		if filter.Status != nil {
			args = append(args, *filter.Status)
			fmt.Fprintf(&sb, " AND o.status = $%d", len(args))
		}
		if filter.Search != nil {
			args = append(args, "%"+*filter.Search+"%")
			fmt.Fprintf(&sb, " AND (o.id::text ILIKE $%d OR o.buyer_name ILIKE $%d)", len(args), len(args))
		}
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY o.created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		var method, tracking, carrier sql.NullString

		if err := rows.Scan(
			&o.ID, &o.SellerID, &o.BuyerName, &o.BuyerPhone,
			&o.Subtotal, &o.ShippingFee, &o.Tax, &o.Total,
			&o.Status, &method, &tracking, &carrier,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if method.Valid {
			m := DeliveryMethod(method.String)
			o.DeliveryMethod = &m
		}
		if tracking.Valid {
			o.TrackingNumber = &tracking.String
		}
		if carrier.Valid {
			o.ShippingCarrier = &carrier.String
		}

		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

// UpdateStatus is a compare-and-swap on the current status so two racing
// submissions cannot both apply.
func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to OrderStatus, shipping *ShippingInfo) error {
	var res sql.Result
	var err error

	if shipping != nil {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders
			SET status = $1, tracking_number = $2, shipping_carrier = $3, updated_at = $4
			WHERE id = $5 AND status = $6
		`, to, shipping.TrackingNumber, shipping.ShippingCarrier, time.Now(), orderID, from)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE orders
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
		`, to, time.Now(), orderID, from)
	}
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	return nil
}
