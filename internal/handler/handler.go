// Package handler содержит HTTP-обработчики экранов витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/apperr"
	"github.com/mmeshcher/storefront/internal/cart"
	"github.com/mmeshcher/storefront/internal/checkout"
	"github.com/mmeshcher/storefront/internal/middleware"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/money"
	"github.com/mmeshcher/storefront/internal/service"
	"github.com/mmeshcher/storefront/internal/session"
	"github.com/mmeshcher/storefront/internal/validation"
)

// Сообщения об ошибках запроса.
const (
	MsgMalformedRequest = "Malformed request."
	MsgInvalidID        = "Invalid identifier."
	MsgUsernameRequired = "Username is required."
	MsgPasswordRequired = "Password is required."
)

// Service определяет сценарии экранов, используемые HTTP-обработчиками.
type Service interface {
	Session() (session.State, model.Session)
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Logout(ctx context.Context) error

	Products(ctx context.Context, term string, scope service.Scope) ([]model.Product, error)
	Product(ctx context.Context, id int) (*model.Product, error)
	CreateProduct(ctx context.Context, form validation.ProductForm) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int, form validation.ProductForm) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	Cart() cart.State
	AddToCart(ctx context.Context, productID int) (cart.State, error)
	SetQuantity(productID, quantity int) cart.State
	RemoveFromCart(productID int) cart.State
	ClearCart() cart.State
	Checkout() (checkout.Receipt, error)
}

// Handler реализует HTTP-обработчики экранов витрины.
type Handler struct {
	service Service
	logger  *zap.Logger
	gate    *middleware.SessionGate
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, gate *middleware.SessionGate) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
		gate:    gate,
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type sessionResponse struct {
	State         string `json:"state"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
	UserID        int    `json:"userId,omitempty"`
}

func newSessionResponse(state session.State, s model.Session) sessionResponse {
	resp := sessionResponse{
		State:         state.String(),
		Authenticated: state == session.StateAuthenticated,
	}
	if resp.Authenticated {
		resp.Username = s.Username
		resp.Role = string(s.Role)
		resp.UserID = s.UserID
	}
	return resp
}

type cartLineResponse struct {
	cart.Line
	Subtotal        float64 `json:"subtotal"`
	SubtotalDisplay string  `json:"subtotalDisplay"`
}

type cartResponse struct {
	Lines        []cartLineResponse `json:"lines"`
	Total        float64            `json:"total"`
	TotalDisplay string             `json:"totalDisplay"`
	ItemCount    int                `json:"itemCount"`
}

func newCartResponse(st cart.State) cartResponse {
	lines := make([]cartLineResponse, 0, len(st.Lines))
	for _, l := range st.Lines {
		lines = append(lines, cartLineResponse{
			Line:            l,
			Subtotal:        l.Subtotal(),
			SubtotalDisplay: money.Format(l.Subtotal()),
		})
	}
	return cartResponse{
		Lines:        lines,
		Total:        st.Total,
		TotalDisplay: money.Format(st.Total),
		ItemCount:    st.ItemCount,
	}
}

// priceInput принимает цену из формы как строкой, так и числом.
type priceInput string

func (p *priceInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceInput(s)
		return nil
	}
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = priceInput(n.String())
	return nil
}

type productRequest struct {
	Title       string     `json:"title"`
	Price       priceInput `json:"price"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Image       string     `json:"image"`
}

func (r productRequest) form() validation.ProductForm {
	return validation.ProductForm{
		Title:       r.Title,
		Price:       string(r.Price),
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}
}

type addItemRequest struct {
	ProductID int `json:"productId"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// Health сообщает о готовности процесса.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	state, _ := h.service.Session()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "session": state.String()})
}

// GetSession возвращает состояние сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, s := h.service.Session()
	h.writeJSON(w, http.StatusOK, newSessionResponse(state, s))
}

// Login выполняет вход пользователя.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgMalformedRequest})
		return
	}

	creds.Username = strings.TrimSpace(creds.Username)
	fields := make(map[string]string)
	if creds.Username == "" {
		fields["username"] = MsgUsernameRequired
	}
	if creds.Password == "" {
		fields["password"] = MsgPasswordRequired
	}
	if len(fields) > 0 {
		h.writeError(w, apperr.Validation(apperr.MsgInvalidInput, fields))
		return
	}

	if _, err := h.service.Login(r.Context(), creds); err != nil {
		h.writeError(w, err)
		return
	}

	state, s := h.service.Session()
	h.writeJSON(w, http.StatusOK, newSessionResponse(state, s))
}

// Logout завершает сессию.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}

	state, s := h.service.Session()
	h.writeJSON(w, http.StatusOK, newSessionResponse(state, s))
}

// ListProducts возвращает каталог, отфильтрованный по запросу q.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	scope := service.ScopeList
	if service.Scope(r.URL.Query().Get("scope")) == service.ScopeSearch {
		scope = service.ScopeSearch
	}

	products, err := h.service.Products(r.Context(), r.URL.Query().Get("q"), scope)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

// GetProduct возвращает карточку товара.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Product(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// CreateProduct создаёт товар. Доступно администратору.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgMalformedRequest})
		return
	}

	p, err := h.service.CreateProduct(r.Context(), req.form())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct изменяет товар. Доступно администратору.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgMalformedRequest})
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), id, req.form())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// DeleteProduct удаляет товар. Доступно администратору.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCart возвращает корзину.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, newCartResponse(h.service.Cart()))
}

// AddCartItem добавляет товар в корзину.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgMalformedRequest})
		return
	}

	st, err := h.service.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(st))
}

// SetCartItem задаёт количество позиции корзины.
func (h *Handler) SetCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgMalformedRequest})
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(h.service.SetQuantity(id, *req.Quantity)))
}

// RemoveCartItem удаляет позицию корзины.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(h.service.RemoveFromCart(id)))
}

// ClearCart очищает корзину.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, newCartResponse(h.service.ClearCart()))
}

// Checkout оформляет заказ.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Checkout()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: MsgInvalidID})
		return 0, false
	}
	return id, true
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(apperr.KindOf(err))
	resp := errorResponse{Error: apperr.Message(err)}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		resp.Fields = appErr.Fields
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), zap.Int("status", status))
	}

	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}
