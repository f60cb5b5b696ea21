package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
	RoleStore    Role = "store"
)

// User is an account together with the locations it owns.
type User struct {
	ID           string     `json:"id"`
	EmailID      string     `json:"emailId" validate:"required,email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role" validate:"required,oneof=admin agent customer store"`
	Locations    []Location `json:"locations" validate:"dive"`
	// LocationsVersion is bumped by the store on every location list write.
	LocationsVersion int64     `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Location is a named point owned by a single user. Names are unique within
// the owner's list only.
type Location struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	AddressNo   *int      `json:"addressNo,omitempty"`
	ZonalNo     *int      `json:"zonalNo,omitempty"`
}

// LocationPatch carries the fields supplied to an update. Nil fields are left
// untouched.
type LocationPatch struct {
	Coordinates []float64 `json:"coordinates,omitempty" validate:"omitempty,len=2"`
	AddressNo   *int      `json:"addressNo,omitempty"`
	ZonalNo     *int      `json:"zonalNo,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p LocationPatch) Empty() bool {
	return p.Coordinates == nil && p.AddressNo == nil && p.ZonalNo == nil
}

// Apply returns a copy of loc with the supplied fields replaced.
func (p LocationPatch) Apply(loc Location) Location {
	if p.Coordinates != nil {
		loc.Coordinates = append([]float64(nil), p.Coordinates...)
	}
	if p.AddressNo != nil {
		v := *p.AddressNo
		loc.AddressNo = &v
	}
	if p.ZonalNo != nil {
		v := *p.ZonalNo
		loc.ZonalNo = &v
	}
	return loc
}

// NormalizeEmail trims and lowercases an email identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IndexOfLocation returns the position of the location called name, or -1.
func (u *User) IndexOfLocation(name string) int {
	for i := range u.Locations {
		if u.Locations[i].Name == name {
			return i
		}
	}
	return -1
}

// CanActFor reports whether u may act on behalf of the account target.
func (u *User) CanActFor(target *User) bool {
	return u.ID == target.ID || u.Role == RoleAdmin
}

// CloneLocations returns a deep copy of the location list.
func (u *User) CloneLocations() []Location {
	out := make([]Location, len(u.Locations))
	for i, loc := range u.Locations {
		out[i] = loc
		out[i].Coordinates = append([]float64(nil), loc.Coordinates...)
	}
	return out
}
