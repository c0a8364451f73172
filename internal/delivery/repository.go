package delivery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateDeliveryTx(ctx context.Context, d *Delivery, initial Update) error
	GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*Delivery, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Delivery, error)
	FetchDeliveries(ctx context.Context, sellerID uint, filter *DeliveryFilterInput, limit, offset int32) ([]*Delivery, error)
	TransitionTx(ctx context.Context, deliveryID uuid.UUID, from, to Status, update Update, proof *ProofOfDelivery) error
	SaveProof(ctx context.Context, deliveryID uuid.UUID, proof ProofOfDelivery) error
	AssignCourierTx(ctx context.Context, deliveryID uuid.UUID, from Status, courier CourierAssignment, update Update) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const deliveryColumns = `
	d.id, d.order_id, d.seller_id, d.delivery_method, d.status,
	d.platform_delivery_fee, d.pickup_address,
	d.platform_courier_id, d.driver_name, d.driver_phone, d.vehicle_type, d.vehicle_number,
	d.proof_image_url, d.recipient_name, d.recipient_phone,
	d.created_at, d.updated_at`

// CreateDeliveryTx assigns the delivery method on the order row and creates
// the delivery with its initial update, all in one transaction. The order
// update is guarded by delivery_method IS NULL so the method can only ever be
// assigned once, regardless of how many callers race.
func (r *repository) CreateDeliveryTx(ctx context.Context, d *Delivery, initial Update) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET delivery_method = $1, updated_at = $2
		WHERE id = $3 AND delivery_method IS NULL
	`, d.Method, time.Now(), d.OrderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMethodAlreadyAssigned
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deliveries (
			id, order_id, seller_id, delivery_method, status,
			platform_delivery_fee, pickup_address, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		d.ID,
		d.OrderID,
		d.SellerID,
		d.Method,
		d.Status,
		d.PlatformFee,
		d.PickupAddress,
		d.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertUpdate(ctx, tx, initial); err != nil {
		return err
	}

	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertUpdate(ctx context.Context, tx execer, u Update) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO delivery_updates (delivery_id, status, notes, location, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, u.DeliveryID, u.Status, u.Notes, u.Location, u.CreatedAt)
	return err
}

func (r *repository) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*Delivery, error) {
	return r.getByColumn(ctx, "d.id", deliveryID)
}

func (r *repository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Delivery, error) {
	return r.getByColumn(ctx, "d.order_id", orderID)
}

func (r *repository) getByColumn(ctx context.Context, column string, id uuid.UUID) (*Delivery, error) {
	query := fmt.Sprintf(`SELECT %s FROM deliveries d WHERE %s = $1`, deliveryColumns, column)

	d, err := scanDelivery(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}

	updates, err := r.fetchUpdates(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Updates = updates

	return d, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDelivery(row rowScanner) (*Delivery, error) {
	var d Delivery
	var courierID sql.NullInt64
	var driverName, driverPhone, vehicleType, vehicleNumber sql.NullString
	var proofImage, recipientName, recipientPhone sql.NullString

	err := row.Scan(
		&d.ID, &d.OrderID, &d.SellerID, &d.Method, &d.Status,
		&d.PlatformFee, &d.PickupAddress,
		&courierID, &driverName, &driverPhone, &vehicleType, &vehicleNumber,
		&proofImage, &recipientName, &recipientPhone,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if courierID.Valid {
		d.Courier = &CourierAssignment{
			PlatformCourierID: uint(courierID.Int64),
			DriverName:        driverName.String,
			DriverPhone:       driverPhone.String,
			VehicleType:       vehicleType.String,
			VehicleNumber:     vehicleNumber.String,
		}
	}
	if proofImage.Valid {
		d.Proof = &ProofOfDelivery{
			ImageURL:       proofImage.String,
			RecipientName:  recipientName.String,
			RecipientPhone: recipientPhone.String,
		}
	}

	return &d, nil
}

func (r *repository) fetchUpdates(ctx context.Context, deliveryID uuid.UUID) ([]Update, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, delivery_id, status, notes, location, created_at
		FROM delivery_updates
		WHERE delivery_id = $1
		ORDER BY id
	`, deliveryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []Update
	for rows.Next() {
		var u Update
		if err := rows.Scan(&u.ID, &u.DeliveryID, &u.Status, &u.Notes, &u.Location, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}

	return updates, rows.Err()
}

func (r *repository) FetchDeliveries(ctx context.Context, sellerID uint, filter *DeliveryFilterInput, limit, offset int32) ([]*Delivery, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM deliveries d WHERE d.seller_id = $1`, deliveryColumns)

	args := []interface{}{sellerID}

	if filter != nil {
		if filter.Method != nil {
			args = append(args, *filter.Method)
			fmt.Fprintf(&sb, " AND d.delivery_method = $%d", len(args))
		}
		if filter.Status != nil {
			args = append(args, *filter.Status)
			fmt.Fprintf(&sb, " AND d.status = $%d", len(args))
		}
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY d.created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, rows.Err()
}

// TransitionTx applies a compare-and-swap status change and appends the
// update row in one transaction, so a failed transition leaves both the
// status and the log untouched.
func (r *repository) TransitionTx(ctx context.Context, deliveryID uuid.UUID, from, to Status, update Update, proof *ProofOfDelivery) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var res sql.Result
	if proof != nil {
		res, err = tx.ExecContext(ctx, `
			UPDATE deliveries
			SET status = $1, proof_image_url = $2, recipient_name = $3, recipient_phone = $4, updated_at = $5
			WHERE id = $6 AND status = $7
		`, to, proof.ImageURL, proof.RecipientName, proof.RecipientPhone, time.Now(), deliveryID, from)
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE deliveries
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
		`, to, time.Now(), deliveryID, from)
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

	if err := insertUpdate(ctx, tx, update); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveProof stores the proof artifact without touching the status. Guarded on
// out_for_delivery so a proof cannot land on a delivery that moved on.
func (r *repository) SaveProof(ctx context.Context, deliveryID uuid.UUID, proof ProofOfDelivery) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE deliveries
		SET proof_image_url = $1, recipient_name = $2, recipient_phone = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`, proof.ImageURL, proof.RecipientName, proof.RecipientPhone, time.Now(), deliveryID, StatusOutForDelivery)
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

func (r *repository) AssignCourierTx(ctx context.Context, deliveryID uuid.UUID, from Status, courier CourierAssignment, update Update) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE deliveries
		SET status = $1, platform_courier_id = $2, driver_name = $3, driver_phone = $4,
		    vehicle_type = $5, vehicle_number = $6, updated_at = $7
		WHERE id = $8 AND status = $9
	`, StatusAwaitingPickup, courier.PlatformCourierID, courier.DriverName, courier.DriverPhone,
		courier.VehicleType, courier.VehicleNumber, time.Now(), deliveryID, from)
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

	if err := insertUpdate(ctx, tx, update); err != nil {
		return err
	}

	return tx.Commit()
}
