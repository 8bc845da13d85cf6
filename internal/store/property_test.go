package store

import (
	"testing"
	"time"

	"github.com/tempnest/tempnest/internal/database"
	"github.com/tempnest/tempnest/internal/model"
)

func setupPropertyTestDB(t *testing.T) (*PropertyStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPropertyStore(db), NewUserStore(db)
}

func testProperty(ownerID int64) model.Property {
	lat, lon := 52.37, 4.89
	return model.Property{
		Title:         "Canal view studio",
		Type:          "apartment",
		Description:   "Bright studio near the centre",
		Location:      "Amsterdam",
		Latitude:      &lat,
		Longitude:     &lon,
		Bedrooms:      2,
		Bathrooms:     1,
		HasLivingRoom: true,
		RentalType:    model.RentalEntire,
		Amenities:     []string{"wifi", "laundry"},
		ImageURLs:     []string{"http://localhost:8080/uploads/a.jpg"},
		Price:         100,
		PriceUnit:     model.PricePerDay,
		AvailableFrom: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ContactName:   "Alice Anders",
		ContactEmail:  "alice@example.com",
		ContactPhone:  "+31600000001",
		ShowEmail:     true,
		ShowPhone:     false,
		OwnerID:       ownerID,
	}
}

func TestPropertyCreateEntire(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	owner, err := us.Create("alice@example.com", "hash", "Alice", "Anders")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	p, err := ps.Create(testProperty(owner.ID))
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if p.Bedrooms != 2 || p.Bathrooms != 1 {
		t.Errorf("rooms = %d/%d, want 2/1", p.Bedrooms, p.Bathrooms)
	}
	if p.Price != 100 || p.PriceUnit != model.PricePerDay {
		t.Errorf("price = %v %s, want 100 /day", p.Price, p.PriceUnit)
	}
	if len(p.Amenities) != 2 || p.Amenities[0] != "wifi" {
		t.Errorf("amenities = %v, want [wifi laundry]", p.Amenities)
	}
	if len(p.ImageURLs) != 1 {
		t.Errorf("image urls = %v, want one entry", p.ImageURLs)
	}
	if p.Latitude == nil || *p.Latitude != 52.37 {
		t.Errorf("latitude = %v, want 52.37", p.Latitude)
	}
	if len(p.Units) != 0 {
		t.Errorf("expected no units for entire rental, got %d", len(p.Units))
	}
}

func TestPropertyCreateUnitsIgnoredForEntire(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	owner, _ := us.Create("alice@example.com", "hash", "Alice", "Anders")

	in := testProperty(owner.ID)
	in.Units = []model.Unit{{Type: model.UnitPrivate, Quantity: 3}}

	p, err := ps.Create(in)
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	if len(p.Units) != 0 {
		t.Errorf("units should be ignored when rentalType is entire, got %d", len(p.Units))
	}
}

func TestPropertyCreateWithUnits(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	owner, _ := us.Create("alice@example.com", "hash", "Alice", "Anders")

	in := testProperty(owner.ID)
	in.RentalType = model.RentalUnits
	in.Units = []model.Unit{
		{Type: model.UnitPrivate, Quantity: 2},
		{Type: model.UnitShared, Quantity: 4},
	}

	p, err := ps.Create(in)
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	if len(p.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(p.Units))
	}
	if p.Units[0].Type != model.UnitPrivate || p.Units[0].Quantity != 2 {
		t.Errorf("unit[0] = %+v, want private/2", p.Units[0])
	}
	if p.Units[1].Type != model.UnitShared || p.Units[1].Quantity != 4 {
		t.Errorf("unit[1] = %+v, want shared/4", p.Units[1])
	}
}

func TestPropertyGetByIDIncludesOwnerEmail(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	owner, _ := us.Create("alice@example.com", "hash", "Alice", "Anders")
	created, _ := ps.Create(testProperty(owner.ID))

	p, err := ps.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if p == nil {
		t.Fatal("expected property, got nil")
	}
	if p.Owner == nil {
		t.Fatal("expected owner projection")
	}
	if p.Owner.ID != owner.ID || p.Owner.FirstName != "Alice" || p.Owner.Email != "alice@example.com" {
		t.Errorf("owner = %+v, want Alice with email", p.Owner)
	}
}

func TestPropertyGetByIDNotFound(t *testing.T) {
	ps, _ := setupPropertyTestDB(t)

	p, err := ps.GetByID(999)
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if p != nil {
		t.Error("expected nil for nonexistent property")
	}
}

func TestPropertyListEmptyStore(t *testing.T) {
	ps, _ := setupPropertyTestDB(t)

	props, err := ps.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(props) != 0 {
		t.Errorf("expected empty result, got %d", len(props))
	}
}

func TestPropertyListOrderAndProjection(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	owner, _ := us.Create("alice@example.com", "hash", "Alice", "Anders")

	first := testProperty(owner.ID)
	first.Title = "First"
	second := testProperty(owner.ID)
	second.Title = "Second"

	if _, err := ps.Create(first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := ps.Create(second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	props, err := ps.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	if props[0].Title != "Second" || props[1].Title != "First" {
		t.Errorf("order = [%s %s], want most recent first", props[0].Title, props[1].Title)
	}
	if props[0].Owner == nil || props[0].Owner.FirstName != "Alice" {
		t.Errorf("owner projection = %+v, want first/last name", props[0].Owner)
	}
	if props[0].Owner.Email != "" {
		t.Error("list projection must not include owner email")
	}
	if len(props[0].Units) != 0 {
		t.Error("list projection must not include units")
	}
}

func TestPropertyListByOwner(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	alice, _ := us.Create("alice@example.com", "hash", "Alice", "Anders")
	bob, _ := us.Create("bob@example.com", "hash", "Bob", "Brown")

	ap := testProperty(alice.ID)
	bp := testProperty(bob.ID)
	bp.Title = "Bob's place"

	if _, err := ps.Create(ap); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ps.Create(bp); err != nil {
		t.Fatalf("create: %v", err)
	}

	props, err := ps.ListByOwner(bob.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(props) != 1 {
		t.Fatalf("expected 1 property, got %d", len(props))
	}
	if props[0].Title != "Bob's place" {
		t.Errorf("title = %q, want Bob's place", props[0].Title)
	}
}

func TestPropertyDeleteCascadesUnits(t *testing.T) {
	ps, us := setupPropertyTestDB(t)
	owner, _ := us.Create("alice@example.com", "hash", "Alice", "Anders")

	in := testProperty(owner.ID)
	in.RentalType = model.RentalUnits
	in.Units = []model.Unit{{Type: model.UnitShared, Quantity: 2}}
	created, err := ps.Create(in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ps.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	p, err := ps.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if p != nil {
		t.Error("expected property to be gone")
	}

	units, err := ps.listUnits(created.ID)
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("expected units to cascade, got %d", len(units))
	}
}

func TestPropertyDeleteMissingIsNoop(t *testing.T) {
	ps, _ := setupPropertyTestDB(t)

	if err := ps.Delete(999); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
