package models

import (
	"time"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
)

// User is an object representing the database table. ClerkID is the subject
// issued by the external identity provider.
type User struct {
	ID        string    `boil:"id" json:"id"`
	ClerkID   string    `boil:"clerk_id" json:"clerkId"`
	Name      string    `boil:"name" json:"name"`
	ImageURL  string    `boil:"image_url" json:"imageUrl"`
	CreatedAt time.Time `boil:"created_at" json:"createdAt"`
	UpdatedAt time.Time `boil:"updated_at" json:"updatedAt"`
}

var userAllColumns = aliased("users",
	"id", "clerk_id", "name", "image_url", "created_at", "updated_at",
)

// Users returns a query against the users table.
func Users(mods ...qm.QueryMod) Query[*User] {
	base := []qm.QueryMod{qm.Select(userAllColumns...), qm.From("users")}
	return newQuery[*User]("User", append(base, mods...)...)
}

// Category is an object representing the database table.
type Category struct {
	ID          string    `boil:"id" json:"id"`
	Name        string    `boil:"name" json:"name"`
	Description string    `boil:"description" json:"description"`
	CreatedAt   time.Time `boil:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `boil:"updated_at" json:"updatedAt"`
}

// Categories returns a query against the categories table.
func Categories(mods ...qm.QueryMod) Query[*Category] {
	base := []qm.QueryMod{
		qm.Select(aliased("categories", "id", "name", "description", "created_at", "updated_at")...),
		qm.From("categories"),
	}
	return newQuery[*Category]("Category", append(base, mods...)...)
}
