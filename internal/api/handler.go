package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"medistock/m/domain"
	"medistock/m/internal/catalog"
	"medistock/m/internal/invoice"
	"medistock/m/internal/sale"
	"medistock/m/internal/search"
)

type ctxKey string

const (
	ctxUserID     ctxKey = "userID"
	ctxRole       ctxKey = "role"
	ctxPharmacyID ctxKey = "pharmacyID"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db       *sqlx.DB
	secret   string
	catalog  *catalog.Store
	invoices *invoice.Store
	sales    *sale.Orchestrator
	search   *search.Engine
}

// New constructs a Handler wired to the core stores and engines. receipts
// may be nil to disable receipt generation.
func New(db *sqlx.DB, secret string, receipts sale.ReceiptGenerator) *Handler {
	catalogStore := catalog.New(db)
	invoiceStore := invoice.New(db)
	return &Handler{
		db:       db,
		secret:   secret,
		catalog:  catalogStore,
		invoices: invoiceStore,
		sales:    sale.New(catalogStore, invoiceStore, receipts),
		search:   search.New(catalogStore),
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/pharmacies", func(r chi.Router) {
			r.Post("/", h.createPharmacy)
			r.Get("/", h.listPharmacies)
			r.Put("/{id}", h.updatePharmacy)
		})

		pr.Route("/medicines", func(r chi.Router) {
			r.Post("/", h.addMedicine)
			r.Get("/", h.listMedicines)
			r.Get("/search", h.searchMedicines)
			r.Get("/expiry-alert", h.expiryAlerts)
			r.Put("/{id}", h.updateMedicine)
			r.Delete("/{id}", h.deleteMedicine)
		})

		pr.Post("/sales", h.createSale)

		pr.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.listInvoices)
			r.Get("/{id}", h.getInvoice)
			r.Delete("/{id}", h.deleteInvoice)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/sales/daily", h.dailySales)
			r.Get("/sales/monthly", h.monthlySales)
		})

		pr.Post("/availability/search", h.searchAvailability)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID     int64  `json:"user_id"`
	Role       string `json:"role"`
	PharmacyID int64  `json:"pharmacy_id"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID int64, role string, pharmacyID int64) (string, error) {
	claims := authClaims{
		UserID:     userID,
		Role:       role,
		PharmacyID: pharmacyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		ctx = context.WithValue(ctx, ctxPharmacyID, claims.PharmacyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	role := r.Context().Value(ctxRole)
	if role == nil {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	current := role.(string)
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

func pharmacyIDFromContext(r *http.Request) int64 {
	if val := r.Context().Value(ctxPharmacyID); val != nil {
		if id, ok := val.(int64); ok {
			return id
		}
	}
	return 0
}

func (h *Handler) requirePharmacy(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id := pharmacyIDFromContext(r)
	if id <= 0 {
		respondError(w, http.StatusForbidden, "user is not linked to a pharmacy")
		return 0, false
	}
	return id, true
}

// respondCoreError maps the core error taxonomy onto HTTP status codes.
func respondCoreError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case domain.IsOutOfStock(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Auth Handlers

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	DateOfBirth     string `json:"date_of_birth"`
	Role            string `json:"role"`
	PharmacyName    string `json:"pharmacy_name,omitempty"`
	PharmacyAddress string `json:"pharmacy_address,omitempty"`
	PharmacyArea    string `json:"pharmacy_area,omitempty"`
}

type authResponse struct {
	Token    string           `json:"token"`
	User     domain.User      `json:"user"`
	Pharmacy *domain.Pharmacy `json:"pharmacy,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "name, email, password and role are required")
		return
	}
	if req.Role != "pharmacist" && req.Role != "patient" {
		respondError(w, http.StatusBadRequest, "role must be pharmacist or patient")
		return
	}
	if req.Role == "pharmacist" && strings.TrimSpace(req.PharmacyName) == "" {
		respondError(w, http.StatusBadRequest, "pharmacy_name is required for pharmacists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to start registration")
		return
	}

	var userID int64
	err = tx.QueryRowx(`INSERT INTO users (name, email, password, dateOfBirth, role) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		req.Name, strings.ToLower(req.Email), hashed, req.DateOfBirth, req.Role).Scan(&userID)
	if err != nil {
		_ = tx.Rollback()
		if strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "unique constraint") {
			respondError(w, http.StatusConflict, "email already exists")
		} else {
			respondError(w, http.StatusInternalServerError, "db error: "+err.Error())
		}
		return
	}

	var (
		pharmacy   *domain.Pharmacy
		pharmacyID int64
	)
	if req.Role == "pharmacist" {
		err = tx.QueryRowx(`INSERT INTO pharmacies (user_id, name, address, area) VALUES (?, ?, ?, ?) RETURNING id`,
			userID, req.PharmacyName, req.PharmacyAddress, req.PharmacyArea).Scan(&pharmacyID)
		if err != nil {
			_ = tx.Rollback()
			respondError(w, http.StatusInternalServerError, "unable to create pharmacy")
			return
		}
		pharmacy = &domain.Pharmacy{
			ID:      pharmacyID,
			UserID:  &userID,
			Name:    req.PharmacyName,
			Address: req.PharmacyAddress,
			Area:    req.PharmacyArea,
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to complete registration")
		return
	}

	token, err := h.generateToken(userID, req.Role, pharmacyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User: domain.User{
			ID:          userID,
			Name:        req.Name,
			Email:       strings.ToLower(req.Email),
			DateOfBirth: req.DateOfBirth,
			Role:        req.Role,
		},
		Pharmacy: pharmacy,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user domain.User
	err := h.db.Get(&user, `SELECT id, name, email, password, dateOfBirth, role FROM users WHERE email = ?`, strings.ToLower(req.Email))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var pharmacyID int64
	if user.Role == "pharmacist" {
		err := h.db.Get(&pharmacyID, `SELECT id FROM pharmacies WHERE user_id = ?`, user.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusInternalServerError, "unable to resolve pharmacy")
			return
		}
	}

	token, err := h.generateToken(user.ID, user.Role, pharmacyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	uid := r.Context().Value(ctxUserID).(int64)
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if _, err := h.db.Exec(`UPDATE users SET password = ? WHERE id = ?`, hashed, uid); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// Pharmacy handlers

type pharmacyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Area    string `json:"area"`
}

func (h *Handler) createPharmacy(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	var req pharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	ownerID := r.Context().Value(ctxUserID).(int64)
	var id int64
	err := h.db.QueryRowx(`INSERT INTO pharmacies (user_id, name, address, area) VALUES (?, ?, ?, ?) RETURNING id`,
		ownerID, req.Name, req.Address, req.Area).Scan(&id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create pharmacy")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name})
}

func (h *Handler) updatePharmacy(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid pharmacy id")
		return
	}
	var req pharmacyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := h.db.Exec(`UPDATE pharmacies SET name = ?, address = ?, area = ? WHERE id = ?`, req.Name, req.Address, req.Area, id); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update pharmacy")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) listPharmacies(w http.ResponseWriter, r *http.Request) {
	var pharmacies []domain.Pharmacy
	if err := h.db.Select(&pharmacies, `SELECT id, user_id, name, address, area FROM pharmacies`); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list pharmacies")
		return
	}
	respondJSON(w, http.StatusOK, pharmacies)
}

// Medicine handlers

type medicineRequest struct {
	Name        string  `json:"name"`
	GenericName string  `json:"generic_name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	ExpiryDate  string  `json:"expiry_date"`
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.catalog.Add(r.Context(), domain.Medicine{
		PharmacyID:  pharmacyID,
		Name:        req.Name,
		GenericName: req.GenericName,
		Brand:       req.Brand,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ExpiryDate:  nullIfEmpty(req.ExpiryDate),
	})
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name})
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	meds, err := h.catalog.ListByPharmacy(r.Context(), pharmacyID)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meds)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	meds, err := h.catalog.SearchByName(r.Context(), pharmacyID, query)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meds)
}

func (h *Handler) expiryAlerts(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	meds, err := h.catalog.ExpiringWithin(r.Context(), pharmacyID, days)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meds)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.catalog.Update(r.Context(), domain.Medicine{
		ID:          id,
		PharmacyID:  pharmacyID,
		Name:        req.Name,
		GenericName: req.GenericName,
		Brand:       req.Brand,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ExpiryDate:  nullIfEmpty(req.ExpiryDate),
	})
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	med, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	if med.PharmacyID != pharmacyID {
		respondError(w, http.StatusForbidden, "medicine does not belong to your pharmacy")
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Sale handler

type saleRequest struct {
	PatientName  string             `json:"patient_name"`
	PatientPhone string             `json:"patient_phone,omitempty"`
	Items        []sale.ItemRequest `json:"items"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.sales.ExecuteSale(r.Context(), sale.SaleRequest{
		PharmacyID:   pharmacyID,
		PatientName:  req.PatientName,
		PatientPhone: nullIfEmpty(req.PatientPhone),
		Items:        req.Items,
	})
	if err != nil {
		respondCoreError(w, err)
		return
	}

	payload := map[string]any{
		"invoice_id":   result.InvoiceID,
		"total_amount": result.TotalAmount,
	}
	if result.ReceiptErr != nil {
		payload["receipt_error"] = result.ReceiptErr.Error()
	} else if result.ReceiptPath != "" {
		payload["receipt_path"] = result.ReceiptPath
	}
	respondJSON(w, http.StatusCreated, payload)
}

// Invoice handlers

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	invoices, err := h.invoices.ListByPharmacy(r.Context(), pharmacyID)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	inv, err := h.invoices.GetByID(r.Context(), id)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	if inv.PharmacyID != pharmacyID {
		respondError(w, http.StatusForbidden, "invoice does not belong to your pharmacy")
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "pharmacist") {
		return
	}
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	inv, err := h.invoices.GetByID(r.Context(), id)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	if inv.PharmacyID != pharmacyID {
		respondError(w, http.StatusForbidden, "invoice does not belong to your pharmacy")
		return
	}
	if err := h.invoices.Delete(r.Context(), id); err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Reports

func (h *Handler) dailySales(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	revenue, count, err := h.invoices.SalesSummary(r.Context(), pharmacyID, since)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"revenue": revenue, "sales_count": count})
}

func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := h.requirePharmacy(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	revenue, count, err := h.invoices.SalesSummary(r.Context(), pharmacyID, since)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"revenue": revenue, "sales_count": count})
}

// Availability search

type availabilityRequest struct {
	Names []string `json:"names"`
}

func (h *Handler) searchAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.search.Search(r.Context(), req.Names)
	if err != nil {
		respondCoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
