package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ironxpress/storefront-svc/internal/domain"
	"ironxpress/storefront-svc/internal/service"
	"ironxpress/storefront-svc/internal/serviceability"
	"ironxpress/storefront-svc/internal/slots"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Handler struct {
	Catalog  service.CatalogServiceInterface
	Cart     service.CartServiceInterface
	Checkout service.CheckoutServiceInterface
	Accounts service.AccountServiceInterface
	Stores   service.StoreServiceInterface
	Checker  *serviceability.Checker
	Slots    *slots.Selector
	Logger   zerolog.Logger

	// Heartbeat is the idle interval between SSE keep-alive comments.
	Heartbeat time.Duration

	streamsInit sync.Once
	streamsStop sync.Once
	streamsDone chan struct{}
}

func (h *Handler) streamsClosed() <-chan struct{} {
	h.streamsInit.Do(func() { h.streamsDone = make(chan struct{}) })
	return h.streamsDone
}

// CloseStreams ends every open event stream. Register it with
// http.Server.RegisterOnShutdown, since Shutdown does not cancel the
// contexts of active requests.
func (h *Handler) CloseStreams() {
	h.streamsClosed()
	h.streamsStop.Do(func() { close(h.streamsDone) })
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/categories/{id}/products", h.getProducts).Methods("GET")
	r.HandleFunc("/api/services", h.getServices).Methods("GET")
	r.HandleFunc("/api/banners", h.getBanners).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{id}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart/events", h.cartEvents).Methods("GET")
	r.HandleFunc("/api/cart/coupon", h.applyCoupon).Methods("PUT")
	r.HandleFunc("/api/cart/coupon", h.removeCoupon).Methods("DELETE")
	r.HandleFunc("/api/coupons", h.getCoupons).Methods("GET")

	r.HandleFunc("/api/serviceability", h.checkServiceability).Methods("POST")
	r.HandleFunc("/api/slots", h.getSlots).Methods("GET")

	r.HandleFunc("/api/checkout", h.getCheckout).Methods("GET")
	r.HandleFunc("/api/checkout/confirm-area", h.confirmArea).Methods("POST")
	r.HandleFunc("/api/checkout/login", h.checkoutLogin).Methods("POST")
	r.HandleFunc("/api/checkout/review", h.checkoutReview).Methods("POST")
	r.HandleFunc("/api/checkout/slot", h.checkoutSlot).Methods("POST")
	r.HandleFunc("/api/checkout/pay", h.checkoutPay).Methods("POST")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}/receipt", h.getReceipt).Methods("GET")
	r.HandleFunc("/api/profile", h.getProfile).Methods("GET")
	r.HandleFunc("/api/profile", h.updateProfile).Methods("PUT")
	r.HandleFunc("/api/addresses", h.getAddresses).Methods("GET")
	r.HandleFunc("/api/addresses", h.addAddress).Methods("POST")
	r.HandleFunc("/api/addresses/{id}", h.deleteAddress).Methods("DELETE")
	r.HandleFunc("/api/notifications", h.getNotifications).Methods("GET")
	r.HandleFunc("/api/notifications/unread", h.getUnreadCount).Methods("GET")

	r.HandleFunc("/api/admin/stores", h.listStores).Methods("GET")
	r.HandleFunc("/api/admin/stores", h.createStore).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrStepOrder):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotServiceable),
		errors.Is(err, service.ErrInvalidSlot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidAddress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail maps a service error to its status. Internal errors are logged and
// hidden from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error().Err(err).Str("session", Session(r)).Str("url", r.URL.Path).Msg("request failed")
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(categories))
}

func (h *Handler) getProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.Products(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(products))
}

func (h *Handler) getServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Catalog.Services(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(services))
}

func (h *Handler) getBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.Catalog.Banners(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(banners))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.Cart.View(r.Context(), Session(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CartLineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	added, err := h.Cart.AddItem(r.Context(), Session(r), item)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity == nil {
		h.fail(w, r, service.ErrInvalidQuantity)
		return
	}
	view, err := h.Cart.UpdateQuantity(r.Context(), Session(r), mux.Vars(r)["id"], *body.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.Cart.RemoveItem(r.Context(), Session(r), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.Cart.ApplyCoupon(r.Context(), Session(r), body.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	view, err := h.Cart.RemoveCoupon(r.Context(), Session(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) getCoupons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cart.Coupons(r.Context()))
}

func (h *Handler) checkServiceability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pincode string `json:"pincode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Checker.Check(r.Context(), body.Pincode))
}

func (h *Handler) getSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Slots.Availability(r.Context()))
}

func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	state, err := h.Checkout.State(r.Context(), Session(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) confirmArea(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Pincode string `json:"pincode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.Checkout.ConfirmArea(r.Context(), Session(r), body.Pincode)
	if errors.Is(err, service.ErrNotServiceable) && state != nil && state.Serviceability != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":          state.Serviceability.Message,
			"serviceability": state.Serviceability,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) checkoutLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.Checkout.Login(r.Context(), Session(r), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) checkoutReview(w http.ResponseWriter, r *http.Request) {
	state, err := h.Checkout.Review(r.Context(), Session(r), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) checkoutSlot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
		Slot string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.Checkout.SelectSlot(r.Context(), Session(r), UserID(r), body.Date, body.Slot)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) checkoutPay(w http.ResponseWriter, r *http.Request) {
	order, err := h.Checkout.Pay(r.Context(), Session(r), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Accounts.Orders(r.Context(), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(orders))
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	qr, err := h.Accounts.Receipt(r.Context(), UserID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(qr) == 0 {
		writeError(w, http.StatusNotFound, "receipt not available")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.Profile(r.Context(), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile.UserID = UserID(r)
	if err := h.Accounts.UpdateProfile(r.Context(), &profile); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) getAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Accounts.Addresses(r.Context(), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(addresses))
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var address domain.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	address.UserID = UserID(r)
	if err := h.Accounts.AddAddress(r.Context(), &address); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, address)
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.DeleteAddress(r.Context(), UserID(r), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Accounts.Notifications(r.Context(), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(notifications))
}

func (h *Handler) getUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Accounts.UnreadCount(r.Context(), UserID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// orEmpty keeps list endpoints from encoding null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
