package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tempnest/tempnest/internal/model"
)

type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

const propertyCols = `p.id, p.title, p.type, p.description, p.location, p.latitude, p.longitude,
	p.bedrooms, p.bathrooms, p.has_living_room, p.rental_type, p.amenities, p.image_urls,
	p.price, p.price_unit, p.available_from, p.available_to,
	p.contact_name, p.contact_email, p.contact_phone, p.show_email, p.show_phone,
	p.owner_id, p.created_at`

// scanProperty scans the propertyCols column set plus any extra destinations
// appended by the caller (owner projection columns).
func scanProperty(scanner interface{ Scan(...any) error }, extra ...any) (*model.Property, error) {
	var p model.Property
	var lat, lon sql.NullFloat64
	var availableTo sql.NullTime
	var amenities, imageURLs string

	dest := []any{
		&p.ID, &p.Title, &p.Type, &p.Description, &p.Location, &lat, &lon,
		&p.Bedrooms, &p.Bathrooms, &p.HasLivingRoom, &p.RentalType, &amenities, &imageURLs,
		&p.Price, &p.PriceUnit, &p.AvailableFrom, &availableTo,
		&p.ContactName, &p.ContactEmail, &p.ContactPhone, &p.ShowEmail, &p.ShowPhone,
		&p.OwnerID, &p.CreatedAt,
	}
	dest = append(dest, extra...)

	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lon.Valid {
		p.Longitude = &lon.Float64
	}
	if availableTo.Valid {
		t := availableTo.Time
		p.AvailableTo = &t
	}
	if err := json.Unmarshal([]byte(amenities), &p.Amenities); err != nil {
		return nil, fmt.Errorf("decode amenities: %w", err)
	}
	if err := json.Unmarshal([]byte(imageURLs), &p.ImageURLs); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}

	return &p, nil
}

// marshalStrings serializes a tag/URL sequence for its TEXT column. A nil
// slice is stored as an empty JSON array, never as null.
func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create persists a property and, when the rental type is "units", its unit
// rows in a single transaction. Units on the input are ignored for any other
// rental type.
func (s *PropertyStore) Create(p model.Property) (*model.Property, error) {
	amenities, err := marshalStrings(p.Amenities)
	if err != nil {
		return nil, fmt.Errorf("encode amenities: %w", err)
	}
	imageURLs, err := marshalStrings(p.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("encode image urls: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO properties (
			title, type, description, location, latitude, longitude,
			bedrooms, bathrooms, has_living_room, rental_type, amenities, image_urls,
			price, price_unit, available_from, available_to,
			contact_name, contact_email, contact_phone, show_email, show_phone, owner_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Type, p.Description, p.Location, p.Latitude, p.Longitude,
		p.Bedrooms, p.Bathrooms, p.HasLivingRoom, p.RentalType, amenities, imageURLs,
		p.Price, p.PriceUnit, p.AvailableFrom, p.AvailableTo,
		p.ContactName, p.ContactEmail, p.ContactPhone, p.ShowEmail, p.ShowPhone, p.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if p.RentalType == model.RentalUnits {
		for _, u := range p.Units {
			if _, err := tx.Exec(
				`INSERT INTO units (property_id, type, quantity) VALUES (?, ?, ?)`,
				id, u.Type, u.Quantity,
			); err != nil {
				return nil, fmt.Errorf("insert unit: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetByID(id)
}

// GetByID returns the full projection: the property, its units, and the
// owner's public fields including email.
func (s *PropertyStore) GetByID(id int64) (*model.Property, error) {
	row := s.db.QueryRow(
		`SELECT `+propertyCols+`, u.id, u.first_name, u.last_name, u.email
		 FROM properties p
		 JOIN users u ON u.id = p.owner_id
		 WHERE p.id = ?`, id)

	var o model.Owner
	p, err := scanProperty(row, &o.ID, &o.FirstName, &o.LastName, &o.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	p.Owner = &o

	units, err := s.listUnits(id)
	if err != nil {
		return nil, err
	}
	p.Units = units

	return p, nil
}

// List returns all properties, most recent first, with the light owner
// projection (no email) and without units.
func (s *PropertyStore) List() ([]model.Property, error) {
	rows, err := s.db.Query(
		`SELECT ` + propertyCols + `, u.id, u.first_name, u.last_name
		 FROM properties p
		 JOIN users u ON u.id = p.owner_id
		 ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		var o model.Owner
		p, err := scanProperty(rows, &o.ID, &o.FirstName, &o.LastName)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		p.Owner = &o
		props = append(props, *p)
	}
	return props, rows.Err()
}

// ListByOwner returns the given owner's properties, most recent first,
// without units or owner projection.
func (s *PropertyStore) ListByOwner(ownerID int64) ([]model.Property, error) {
	rows, err := s.db.Query(
		`SELECT `+propertyCols+`
		 FROM properties p
		 WHERE p.owner_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list properties by owner: %w", err)
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

// Delete removes a property and its unit rows. The unit delete is explicit
// so removal does not depend on the foreign_keys pragma being set on the
// pooled connection that happens to run it.
func (s *PropertyStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM units WHERE property_id = ?`, id); err != nil {
		return fmt.Errorf("delete units: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM properties WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return tx.Commit()
}

func (s *PropertyStore) listUnits(propertyID int64) ([]model.Unit, error) {
	rows, err := s.db.Query(
		`SELECT id, property_id, type, quantity FROM units WHERE property_id = ? ORDER BY id ASC`,
		propertyID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.PropertyID, &u.Type, &u.Quantity); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
