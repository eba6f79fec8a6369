package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "transfer:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Transfer"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Locations
	{Code: "location:view", Name: "View Location"},
	{Code: "location:create", Name: "Create Location"},
	{Code: "location:update", Name: "Update Location"},
	{Code: "location:delete", Name: "Delete Location"},
	// Stock ledger
	{Code: "inventory:view", Name: "View Inventory"},
	{Code: "inventory:adjust", Name: "Adjust Stock"},
	{Code: "inventory:reserve", Name: "Reserve and Release Stock"},
	// Transfers
	{Code: "transfer:view", Name: "View Transfer"},
	{Code: "transfer:create", Name: "Create Transfer"},
	{Code: "transfer:confirm", Name: "Confirm Transfer"},
	{Code: "transfer:reject", Name: "Reject Transfer"},
	{Code: "transfer:cancel", Name: "Cancel Transfer"},
	{Code: "transfer:delete", Name: "Delete Transfer"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
