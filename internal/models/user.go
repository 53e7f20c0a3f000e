package models

import "gorm.io/gorm"

// Role is the closed set of user roles.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleEmployee, RoleManager:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state. New registrations start as
// PENDING and cannot log in until a manager activates them.
type UserStatus string

const (
	UserStatusPending UserStatus = "PENDING"
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusBlocked:
		return true
	}
	return false
}

// User represents a user of the store.
type User struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role       Role       `json:"role" gorm:"type:varchar(10);default:CUSTOMER"`
	Status     UserStatus `json:"status" gorm:"type:varchar(10);default:PENDING"`
	Phone      string     `json:"phone" gorm:"type:varchar(15)"`
	Address    string     `json:"address"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsStaff reports whether the user holds an employee or manager role.
func (u *User) IsStaff() bool {
	return u.Role == RoleEmployee || u.Role == RoleManager
}

// EmployeeCustomerAssignment links an employee to a customer the employee is
// allowed to act for. Only one assignment may exist per employee/customer pair.
type EmployeeCustomerAssignment struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EmployeeID   string `json:"employee_id" gorm:"uniqueIndex:idx_employee_customer;type:varchar(36)"`
	CustomerID   string `json:"customer_id" gorm:"uniqueIndex:idx_employee_customer;type:varchar(36)"`
	AssignedByID string `json:"assigned_by_id" gorm:"type:varchar(36)"`
	Employee     *User  `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
	Customer     *User  `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	gorm.Model
}
