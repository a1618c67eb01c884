package service_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/mocks"
	"ironxpress/storefront-svc/internal/service"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_ProfileCreatedOnFirstRead(t *testing.T) {
	repo := new(mocks.AccountRepository)
	svc := service.NewAccountService(repo, new(mocks.OrderRepository), nil, zerolog.Nop())

	repo.On("GetProfile", mock.Anything, "user-1").Return(nil, sql.ErrNoRows).Once()
	repo.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p *domain.UserProfile) bool {
		return p.UserID == "user-1"
	})).Return(nil).Once()

	profile, err := svc.Profile(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	repo.AssertExpectations(t)
}

func TestAccountService_ProfileErrors(t *testing.T) {
	repo := new(mocks.AccountRepository)
	svc := service.NewAccountService(repo, new(mocks.OrderRepository), nil, zerolog.Nop())

	_, err := svc.Profile(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	repo.On("GetProfile", mock.Anything, "user-1").Return(nil, assert.AnError).Once()
	_, err = svc.Profile(context.Background(), "user-1")
	assert.ErrorIs(t, err, assert.AnError)
	repo.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestAccountService_AddAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   *domain.Address
		wantErr error
	}{
		{name: "anonymous", input: &domain.Address{AddressLine1: "1 Main St"}, wantErr: service.ErrUnauthenticated},
		{name: "missing line 1", input: &domain.Address{UserID: "user-1", AddressLine1: "   "}, wantErr: service.ErrInvalidAddress},
		{name: "valid", input: &domain.Address{UserID: "user-1", AddressLine1: "1 Main St", Pincode: "122 001"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.AccountRepository)
			svc := service.NewAccountService(repo, new(mocks.OrderRepository), nil, zerolog.Nop())
			if testCase.wantErr == nil {
				repo.On("CreateAddress", mock.Anything, testCase.input).Return(nil).Once()
			}

			err := svc.AddAddress(context.Background(), testCase.input)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "122001", testCase.input.Pincode)
			repo.AssertExpectations(t)
		})
	}
}

func TestAccountService_DeleteAddress(t *testing.T) {
	repo := new(mocks.AccountRepository)
	svc := service.NewAccountService(repo, new(mocks.OrderRepository), nil, zerolog.Nop())

	repo.On("DeleteAddress", mock.Anything, "user-1", "a1").Return(int64(1), nil).Once()
	repo.On("DeleteAddress", mock.Anything, "user-1", "zz").Return(int64(0), nil).Once()

	assert.NoError(t, svc.DeleteAddress(context.Background(), "user-1", "a1"))
	assert.ErrorIs(t, svc.DeleteAddress(context.Background(), "user-1", "zz"), service.ErrAddressNotFound)
}

func TestAccountService_Receipt(t *testing.T) {
	orders := new(mocks.OrderRepository)
	qr := new(mocks.QRGenerator)
	svc := service.NewAccountService(new(mocks.AccountRepository), orders, qr, zerolog.Nop())
	ctx := context.Background()

	orders.On("GetReceipt", mock.Anything, "user-1", 1).Return([]byte("stored"), nil).Once()
	orders.On("GetReceipt", mock.Anything, "user-1", 2).Return([]byte(nil), nil).Once()
	orders.On("GetReceipt", mock.Anything, "user-1", 3).Return(nil, sql.ErrNoRows).Once()
	qr.On("Generate", 2).Return([]byte("fresh"), nil).Once()
	orders.On("SaveReceipt", mock.Anything, 2, []byte("fresh")).Return(nil).Once()

	stored, err := svc.Receipt(ctx, "user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), stored)

	fresh, err := svc.Receipt(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), fresh)

	_, err = svc.Receipt(ctx, "user-1", 3)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)

	orders.AssertExpectations(t)
	qr.AssertExpectations(t)
}

func TestStoreService_CreateValidation(t *testing.T) {
	repo := new(mocks.StoreRepository)
	svc := service.NewStoreService(repo)

	_, err := svc.Create(context.Background(), map[string]any{
		"store_name":     "Sector 14",
		"phone_number":   "",
		"address_line_1": "Plot 5",
		"city":           "Gurugram",
	})

	var missing *service.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Missing required fields: contact_person_name, phone_number, state, pincode", missing.Error())
	repo.AssertNotCalled(t, "CreateStoreAddress", mock.Anything, mock.Anything)
}

func TestStoreService_CreateRejectsBlankFields(t *testing.T) {
	repo := new(mocks.StoreRepository)
	svc := service.NewStoreService(repo)

	_, err := svc.Create(context.Background(), map[string]any{
		"store_name":          "   ",
		"contact_person_name": "Asha",
		"phone_number":        "9999999999",
		"address_line_1":      "Plot 5",
		"city":                "Gurugram",
		"state":               "\t",
		"pincode":             "122001",
	})

	var missing *service.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"store_name", "state"}, missing.Fields)
	repo.AssertNotCalled(t, "CreateStoreAddress", mock.Anything, mock.Anything)
}

func TestStoreService_CreateDefaults(t *testing.T) {
	repo := new(mocks.StoreRepository)
	svc := service.NewStoreService(repo)
	repo.On("CreateStoreAddress", mock.Anything, mock.AnythingOfType("*domain.StoreAddress")).Return(nil).Once()

	store, err := svc.Create(context.Background(), map[string]any{
		"store_name":          "Sector 14",
		"contact_person_name": "Asha",
		"phone_number":        "9999999999",
		"address_line_1":      "Plot 5",
		"city":                "Gurugram",
		"state":               "Haryana",
		"pincode":             122001.0,
		"latitude":            "28.45",
		"longitude":           "not a number",
	})

	require.NoError(t, err)
	assert.Equal(t, "Store", store.AddressType)
	assert.Equal(t, "122001", store.Pincode)
	assert.True(t, store.IsActive)
	require.NotNil(t, store.Latitude)
	assert.Equal(t, 28.45, *store.Latitude)
	assert.Nil(t, store.Longitude)
}

func TestStoreService_ListMissingTable(t *testing.T) {
	repo := new(mocks.StoreRepository)
	svc := service.NewStoreService(repo)
	repo.On("ListStoreAddresses", mock.Anything).Return(nil, &pq.Error{Code: "42P01"}).Once()

	stores, err := svc.List(context.Background())

	assert.ErrorIs(t, err, service.ErrStoreTableMissing)
	assert.NotNil(t, stores)
	assert.Empty(t, stores)
}

func TestTagService_SetTag(t *testing.T) {
	tests := []struct {
		name          string
		updated       []domain.Service
		wantUpdated   int
		wantAvailable int
	}{
		{name: "match", updated: []domain.Service{{Name: "Steam Iron", Tag: "Premium"}}, wantUpdated: 1},
		{name: "no match lists services", updated: nil, wantAvailable: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.TagRepository)
			svc := service.NewTagService(repo)
			repo.On("UpdateServiceTag", mock.Anything, "Steam Iron", "Premium").Return(testCase.updated, nil).Once()
			repo.On("AllServices", mock.Anything).Return([]domain.Service{{Name: "Dry Clean"}, {Name: "Wash"}}, nil).Maybe()

			result, err := svc.SetTag(context.Background(), " Steam Iron ", "Premium")

			require.NoError(t, err)
			assert.Len(t, result.Updated, testCase.wantUpdated)
			assert.Len(t, result.Available, testCase.wantAvailable)
		})
	}
}

func TestAccountService_NotificationsResetUnread(t *testing.T) {
	repo := new(mocks.AccountRepository)
	unread := new(mocks.UnreadCounter)
	svc := service.NewAccountService(repo, new(mocks.OrderRepository), nil, zerolog.Nop())
	svc.Unread = unread

	repo.On("ListNotifications", mock.Anything, "user-1").
		Return([]domain.Notification{{ID: 1, UserID: "user-1", Title: "Order placed"}}, nil).Once()
	unread.On("ResetUnread", mock.Anything, "user-1").Return(nil).Once()
	unread.On("Unread", mock.Anything, "user-1").Return(int64(0), nil).Once()

	notifications, err := svc.Notifications(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	count, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.UnreadCount(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
	repo.AssertExpectations(t)
	unread.AssertExpectations(t)
}

func TestAccountService_ReceiptFailuresAreLogged(t *testing.T) {
	orders := new(mocks.OrderRepository)
	qr := new(mocks.QRGenerator)
	unread := new(mocks.UnreadCounter)
	repo := new(mocks.AccountRepository)
	var buf bytes.Buffer
	svc := service.NewAccountService(repo, orders, qr, zerolog.New(&buf))
	svc.Unread = unread
	ctx := context.Background()

	orders.On("GetReceipt", mock.Anything, "user-1", 4).Return([]byte(nil), nil).Once()
	qr.On("Generate", 4).Return(nil, errors.New("encode failed")).Once()
	orders.On("GetReceipt", mock.Anything, "user-1", 5).Return([]byte(nil), nil).Once()
	qr.On("Generate", 5).Return([]byte("fresh"), nil).Once()
	orders.On("SaveReceipt", mock.Anything, 5, []byte("fresh")).Return(errors.New("db down")).Once()
	repo.On("ListNotifications", mock.Anything, "user-1").Return([]domain.Notification{}, nil).Once()
	unread.On("ResetUnread", mock.Anything, "user-1").Return(errors.New("redis down")).Once()

	empty, err := svc.Receipt(ctx, "user-1", 4)
	require.NoError(t, err)
	assert.Empty(t, empty)

	fresh, err := svc.Receipt(ctx, "user-1", 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), fresh)

	_, err = svc.Notifications(ctx, "user-1")
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "Failed to regenerate receipt")
	assert.Contains(t, logs, "Failed to save regenerated receipt")
	assert.Contains(t, logs, "Failed to reset unread count")
	orders.AssertExpectations(t)
	qr.AssertExpectations(t)
	unread.AssertExpectations(t)
}

func TestAccountService_UnreadCountWithoutCounter(t *testing.T) {
	svc := service.NewAccountService(new(mocks.AccountRepository), new(mocks.OrderRepository), nil, zerolog.Nop())

	count, err := svc.UnreadCount(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Zero(t, count)
}
