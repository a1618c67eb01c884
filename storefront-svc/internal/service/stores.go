package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/storage"
)

var requiredStoreFields = []string{
	"store_name",
	"contact_person_name",
	"phone_number",
	"address_line_1",
	"city",
	"state",
	"pincode",
}

const defaultStoreAddressType = "Store"

type StoreService struct {
	repo StoreRepository
}

func NewStoreService(repo StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

// List returns store addresses newest first. A missing table is reported as
// ErrStoreTableMissing.
func (s *StoreService) List(ctx context.Context) ([]domain.StoreAddress, error) {
	stores, err := s.repo.ListStoreAddresses(ctx)
	if storage.IsUndefinedTable(err) {
		return []domain.StoreAddress{}, ErrStoreTableMissing
	}
	if err != nil {
		return nil, err
	}
	if stores == nil {
		stores = []domain.StoreAddress{}
	}
	return stores, nil
}

// Create validates a loosely typed request body and inserts an active store.
func (s *StoreService) Create(ctx context.Context, body map[string]any) (*domain.StoreAddress, error) {
	var missing []string
	for _, field := range requiredStoreFields {
		if !truthy(body[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	store := &domain.StoreAddress{
		StoreName:         stringField(body, "store_name"),
		AddressType:       stringField(body, "address_type"),
		ContactPersonName: stringField(body, "contact_person_name"),
		PhoneNumber:       stringField(body, "phone_number"),
		AddressLine1:      stringField(body, "address_line_1"),
		AddressLine2:      stringField(body, "address_line_2"),
		Landmark:          stringField(body, "landmark"),
		City:              stringField(body, "city"),
		State:             stringField(body, "state"),
		Pincode:           stringField(body, "pincode"),
		Latitude:          floatField(body, "latitude"),
		Longitude:         floatField(body, "longitude"),
		IsActive:          true,
	}
	if store.AddressType == "" {
		store.AddressType = defaultStoreAddressType
	}

	if err := s.repo.CreateStoreAddress(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case bool:
		return val
	case float64:
		return val != 0
	default:
		return true
	}
}

func stringField(body map[string]any, key string) string {
	switch val := body[key].(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// floatField accepts a number or a numeric string. Anything else is nil.
func floatField(body map[string]any, key string) *float64 {
	switch val := body[key].(type) {
	case float64:
		if val == 0 {
			return nil
		}
		return &val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || f == 0 {
			return nil
		}
		return &f
	default:
		return nil
	}
}

var _ StoreServiceInterface = (*StoreService)(nil)
