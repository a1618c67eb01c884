package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/lib/pq"
)

// IsUndefinedTable reports whether err is Postgres "relation does not exist".
func IsUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) ActiveCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT code, discount_type, discount_value, minimum_order_value, max_discount_amount, COALESCE(description, '')
		FROM coupons
		WHERE is_active = TRUE
		ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		var maxDiscount sql.NullFloat64
		if err := rows.Scan(&c.Code, &c.DiscountType, &c.DiscountValue, &c.MinimumOrderValue, &maxDiscount, &c.Description); err != nil {
			continue
		}
		if maxDiscount.Valid {
			v := maxDiscount.Float64
			c.MaxDiscountAmount = &v
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *PostgresRepository) ActivePincodes(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT pincode FROM service_areas WHERE is_active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pincodes []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			continue
		}
		pincodes = append(pincodes, p)
	}
	return pincodes, rows.Err()
}

func (r *PostgresRepository) DeliverySlots(ctx context.Context) ([]domain.DeliverySlot, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, label, available FROM delivery_slots ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.DeliverySlot
	for rows.Next() {
		var s domain.DeliverySlot
		if err := rows.Scan(&s.ID, &s.Label, &s.Available); err != nil {
			continue
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''), sort_order
		FROM categories
		WHERE is_active = TRUE
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.SortOrder); err != nil {
			continue
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.id, p.category_id, p.product_name, p.product_price, COALESCE(p.description, ''),
		       COALESCE(p.image_url, ''), p.is_enabled, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.category_id = $1 AND p.is_enabled = TRUE
		ORDER BY p.sort_order, p.product_name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Price, &p.Description, &p.ImageURL, &p.IsEnabled, &p.CategoryName); err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, price, COALESCE(icon, ''), COALESCE(color_hex, ''), COALESCE(service_description, ''),
		       COALESCE(tag, ''), sort_order
		FROM services
		WHERE is_active = TRUE
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Icon, &s.ColorHex, &s.Description, &s.Tag, &s.SortOrder); err != nil {
			continue
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// AllServices lists every service, active or not, by name.
func (r *PostgresRepository) AllServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, price, COALESCE(tag, ''), sort_order
		FROM services
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Tag, &s.SortOrder); err != nil {
			continue
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *PostgresRepository) UpdateServiceTag(ctx context.Context, name, tag string) ([]domain.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE services SET tag = $1
		WHERE name = $2
		RETURNING id, name, price, COALESCE(tag, ''), sort_order`, tag, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updated []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Tag, &s.SortOrder); err != nil {
			return nil, err
		}
		updated = append(updated, s)
	}
	return updated, rows.Err()
}

func (r *PostgresRepository) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, COALESCE(title, ''), COALESCE(subtitle, ''), image_url, COALESCE(link_url, ''), sort_order
		FROM banners
		WHERE is_active = TRUE
		ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.Subtitle, &b.ImageURL, &b.LinkURL, &b.SortOrder); err != nil {
			continue
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	return r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, items, subtotal, discount_amount, delivery_fee, total_amount, coupon_code,
		                    pincode, pickup_date, pickup_slot, order_status, payment_method, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		order.UserID, itemsJSON, order.Subtotal, order.Discount, order.DeliveryFee, order.TotalAmount, order.CouponCode,
		order.Pincode, order.PickupDate, order.PickupSlot, order.OrderStatus, order.PaymentMethod, order.PaymentStatus).
		Scan(&order.ID, &order.CreatedAt)
}

func (r *PostgresRepository) SaveReceipt(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET receipt_qr = $1 WHERE id = $2`, qr, orderID)
	return err
}

// GetReceipt returns sql.ErrNoRows when the order does not belong to userID.
func (r *PostgresRepository) GetReceipt(ctx context.Context, userID string, orderID int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, `SELECT receipt_qr FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID).Scan(&qr)
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, items, subtotal, discount_amount, delivery_fee, total_amount, COALESCE(coupon_code, ''),
		       COALESCE(pincode, ''), COALESCE(pickup_date, ''), COALESCE(pickup_slot, ''), order_status,
		       COALESCE(payment_method, ''), COALESCE(payment_status, ''), created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var items []byte
		if err := rows.Scan(&o.ID, &o.UserID, &items, &o.Subtotal, &o.Discount, &o.DeliveryFee, &o.TotalAmount, &o.CouponCode,
			&o.Pincode, &o.PickupDate, &o.PickupSlot, &o.OrderStatus, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt); err != nil {
			continue
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			o.Items = nil
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(avatar_url, ''),
		       created_at, updated_at
		FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a profile, keeping an existing row if another request
// created it first.
func (r *PostgresRepository) CreateProfile(ctx context.Context, p *domain.UserProfile) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO user_profiles (user_id, full_name, email, phone, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING full_name, email, phone, avatar_url, created_at, updated_at`,
		p.UserID, p.FullName, p.Email, p.Phone, p.AvatarURL).
		Scan(&p.FullName, &p.Email, &p.Phone, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	return r.DB.QueryRowContext(ctx, `
		UPDATE user_profiles
		SET full_name = $1, email = $2, phone = $3, avatar_url = $4, updated_at = NOW()
		WHERE user_id = $5
		RETURNING created_at, updated_at`,
		p.FullName, p.Email, p.Phone, p.AvatarURL, p.UserID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepository) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(address_type, ''), COALESCE(full_name, ''), COALESCE(phone_number, ''),
		       address_line_1, COALESCE(address_line_2, ''), COALESCE(landmark, ''), COALESCE(city, ''),
		       COALESCE(state, ''), COALESCE(pincode, ''), is_default, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.AddressType, &a.FullName, &a.PhoneNumber, &a.AddressLine1, &a.AddressLine2,
			&a.Landmark, &a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt); err != nil {
			continue
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *PostgresRepository) CreateAddress(ctx context.Context, a *domain.Address) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO addresses (user_id, address_type, full_name, phone_number, address_line_1, address_line_2,
		                       landmark, city, state, pincode, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		a.UserID, a.AddressType, a.FullName, a.PhoneNumber, a.AddressLine1, a.AddressLine2,
		a.Landmark, a.City, a.State, a.Pincode, a.IsDefault).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *PostgresRepository) DeleteAddress(ctx context.Context, userID, id string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, COALESCE(message, ''), is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *PostgresRepository) ListStoreAddresses(ctx context.Context) ([]domain.StoreAddress, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, store_name, address_type, contact_person_name, phone_number, address_line_1,
		       COALESCE(address_line_2, ''), COALESCE(landmark, ''), city, state, pincode, latitude, longitude,
		       is_active, created_at
		FROM store_addresses
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []domain.StoreAddress
	for rows.Next() {
		var s domain.StoreAddress
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.StoreName, &s.AddressType, &s.ContactPersonName, &s.PhoneNumber, &s.AddressLine1,
			&s.AddressLine2, &s.Landmark, &s.City, &s.State, &s.Pincode, &lat, &lng, &s.IsActive, &s.CreatedAt); err != nil {
			continue
		}
		s.Latitude = nullableFloat(lat)
		s.Longitude = nullableFloat(lng)
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *PostgresRepository) CreateStoreAddress(ctx context.Context, s *domain.StoreAddress) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO store_addresses (store_name, address_type, contact_person_name, phone_number, address_line_1,
		                             address_line_2, landmark, city, state, pincode, latitude, longitude, is_active)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		s.StoreName, s.AddressType, s.ContactPersonName, s.PhoneNumber, s.AddressLine1,
		s.AddressLine2, s.Landmark, s.City, s.State, s.Pincode, s.Latitude, s.Longitude, s.IsActive).
		Scan(&s.ID, &s.CreatedAt)
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
