package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tempnest/tempnest/internal/auth"
	"github.com/tempnest/tempnest/internal/model"
	"github.com/tempnest/tempnest/internal/store"
	"github.com/tempnest/tempnest/internal/websocket"
)

type PropertyHandler struct {
	properties *store.PropertyStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewPropertyHandler(ps *store.PropertyStore, hub *websocket.Hub, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{properties: ps, hub: hub, logger: logger}
}

func (h *PropertyHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// unitRequest and propertyRequest use json.Number for fields the multi-step
// client form may submit as either numbers or numeric strings.
type unitRequest struct {
	Type     string      `json:"type"`
	Quantity json.Number `json:"quantity"`
}

type propertyRequest struct {
	Title         string        `json:"title"`
	Type          string        `json:"type"`
	Description   string        `json:"description"`
	Location      string        `json:"location"`
	Latitude      json.Number   `json:"latitude"`
	Longitude     json.Number   `json:"longitude"`
	Bedrooms      json.Number   `json:"bedrooms"`
	Bathrooms     json.Number   `json:"bathrooms"`
	HasLivingRoom *bool         `json:"hasLivingRoom"`
	RentalType    string        `json:"rentalType"`
	Amenities     []string      `json:"amenities"`
	ImageURLs     []string      `json:"imageUrls"`
	Price         json.Number   `json:"price"`
	PriceUnit     string        `json:"priceUnit"`
	AvailableFrom string        `json:"availableFrom"`
	AvailableTo   string        `json:"availableTo"`
	ContactName   string        `json:"contactName"`
	ContactEmail  string        `json:"contactEmail"`
	ContactPhone  string        `json:"contactPhone"`
	ShowEmail     *bool         `json:"showEmail"`
	ShowPhone     *bool         `json:"showPhone"`
	Units         []unitRequest `json:"units"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, errMsg := buildProperty(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}
	p.OwnerID = identity.UserID

	created, err := h.properties.Create(p)
	if err != nil {
		h.logger.Error("create property", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list property")
		return
	}

	h.broadcast(websocket.NewMessage("listing", "created", created.ID))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "property listed successfully",
		"property": created,
	})
}

// buildProperty validates the request field by field and returns either the
// property to persist or the first failing condition. Nothing is written to
// the store until every check passes.
func buildProperty(req propertyRequest) (model.Property, string) {
	var p model.Property

	p.Title = strings.TrimSpace(req.Title)
	if p.Title == "" {
		return p, "title is required"
	}
	if !model.PropertyTypes[req.Type] {
		return p, "type must be apartment, house, or condo"
	}
	p.Type = req.Type
	p.Description = strings.TrimSpace(req.Description)
	if p.Description == "" {
		return p, "description is required"
	}
	p.Location = strings.TrimSpace(req.Location)
	if p.Location == "" {
		return p, "location is required"
	}

	lat, err := parseFloat(req.Latitude)
	if err != nil {
		return p, "latitude is required and must be numeric"
	}
	lon, err := parseFloat(req.Longitude)
	if err != nil {
		return p, "longitude is required and must be numeric"
	}
	p.Latitude, p.Longitude = &lat, &lon

	bedrooms, err := parseCount(req.Bedrooms)
	if err != nil {
		return p, "bedrooms must be a non-negative integer"
	}
	bathrooms, err := parseCount(req.Bathrooms)
	if err != nil {
		return p, "bathrooms must be a non-negative integer"
	}
	p.Bedrooms, p.Bathrooms = bedrooms, bathrooms

	if req.HasLivingRoom == nil {
		return p, "hasLivingRoom must be a boolean"
	}
	p.HasLivingRoom = *req.HasLivingRoom

	if req.RentalType != model.RentalEntire && req.RentalType != model.RentalUnits {
		return p, "rentalType must be entire or units"
	}
	p.RentalType = req.RentalType

	if req.Amenities == nil {
		return p, "amenities must be an array"
	}
	p.Amenities = req.Amenities
	if req.ImageURLs == nil {
		return p, "imageUrls must be an array"
	}
	p.ImageURLs = req.ImageURLs

	price, err := parseFloat(req.Price)
	if err != nil || price <= 0 {
		return p, "price must be a positive number"
	}
	p.Price = price
	if req.PriceUnit != model.PricePerDay && req.PriceUnit != model.PricePerMonth {
		return p, "priceUnit must be /day or /month"
	}
	p.PriceUnit = req.PriceUnit

	if req.AvailableFrom == "" {
		return p, "availableFrom is required"
	}
	from, err := parseDate(req.AvailableFrom)
	if err != nil {
		return p, "availableFrom must be a valid date"
	}
	p.AvailableFrom = from
	if req.AvailableTo != "" {
		to, err := parseDate(req.AvailableTo)
		if err != nil {
			return p, "availableTo must be a valid date"
		}
		if to.Before(from) {
			return p, "availableTo must not precede availableFrom"
		}
		p.AvailableTo = &to
	}

	p.ContactName = strings.TrimSpace(req.ContactName)
	if p.ContactName == "" {
		return p, "contactName is required"
	}
	p.ContactEmail = strings.TrimSpace(req.ContactEmail)
	if p.ContactEmail == "" {
		return p, "contactEmail is required"
	}
	p.ContactPhone = strings.TrimSpace(req.ContactPhone)
	if p.ContactPhone == "" {
		return p, "contactPhone is required"
	}
	if req.ShowEmail == nil {
		return p, "showEmail must be a boolean"
	}
	p.ShowEmail = *req.ShowEmail
	if req.ShowPhone == nil {
		return p, "showPhone must be a boolean"
	}
	p.ShowPhone = *req.ShowPhone

	// Units are only validated, and later persisted, for room-by-room
	// rentals; a units array on an entire-home listing is ignored.
	if req.RentalType == model.RentalUnits {
		if len(req.Units) == 0 {
			return p, "units must be a non-empty array"
		}
		for _, u := range req.Units {
			if u.Type != model.UnitPrivate && u.Type != model.UnitShared {
				return p, "unit type must be private or shared"
			}
			qty, err := parseCount(u.Quantity)
			if err != nil || qty < 1 {
				return p, "unit quantity must be a positive integer"
			}
			p.Units = append(p.Units, model.Unit{Type: u.Type, Quantity: qty})
		}
	}

	return p, ""
}

func parseFloat(n json.Number) (float64, error) {
	return strconv.ParseFloat(n.String(), 64)
}

func parseCount(n json.Number) (int, error) {
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// parseDate accepts both plain dates and full timestamps, matching what the
// client's date pickers submit.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}

	p, err := h.properties.GetByID(id)
	if err != nil {
		h.logger.Error("get property", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch property")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.List()
	if err != nil {
		h.logger.Error("list properties", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch listings")
		return
	}
	if props == nil {
		props = []model.Property{}
	}
	writeJSON(w, http.StatusOK, props)
}

// MyListings returns the authenticated caller's own listings.
func (h *PropertyHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	props, err := h.properties.ListByOwner(identity.UserID)
	if err != nil {
		h.logger.Error("list own properties", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch listings")
		return
	}
	if props == nil {
		props = []model.Property{}
	}
	writeJSON(w, http.StatusOK, props)
}

// UserListings returns the public listing set for an arbitrary owner id.
func (h *PropertyHandler) UserListings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	props, err := h.properties.ListByOwner(id)
	if err != nil {
		h.logger.Error("list user properties", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch listings")
		return
	}
	if props == nil {
		props = []model.Property{}
	}
	writeJSON(w, http.StatusOK, props)
}

// Delete removes a listing. Callers may only delete their own listings.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}

	p, err := h.properties.GetByID(id)
	if err != nil {
		h.logger.Error("get property", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete property")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	if p.OwnerID != identity.UserID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.properties.Delete(id); err != nil {
		h.logger.Error("delete property", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete property")
		return
	}

	h.broadcast(websocket.NewMessage("listing", "deleted", id))

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
