package repositories

import "lapak/internal/models"

// UserFilter narrows List results. Zero values mean "any".
type UserFilter struct {
	Role   models.Role
	Status models.UserStatus
}

// UserStats summarizes the user directory for manager dashboards.
type UserStats struct {
	TotalUsers      int64 `json:"total_users"`
	PendingApproval int64 `json:"pending_approval"`
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	List(filter UserFilter) ([]models.User, error)
	UpdateStatus(id string, status models.UserStatus) error
	UpdateRole(id string, role models.Role) error
	Stats() (*UserStats, error)
}

// AssignmentRepository defines the interface for employee-customer
// assignment data access.
type AssignmentRepository interface {
	Create(assignment *models.EmployeeCustomerAssignment) error
	Delete(employeeID, customerID string) error
	ListByEmployee(employeeID string) ([]models.EmployeeCustomerAssignment, error)
	ListAll() ([]models.EmployeeCustomerAssignment, error)
	Exists(employeeID, customerID string) (bool, error)
}
