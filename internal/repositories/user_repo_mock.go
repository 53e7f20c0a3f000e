package repositories

import (
	"fmt"
	"sync"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with username %s not found", username)
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s not found", email)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, &UserNotFoundError{UserID: id}
	}
	return &user, nil
}

// List returns users matching the filter.
func (r *MockUserRepository) List(filter UserFilter) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		userList = append(userList, u)
	}
	return userList, nil
}

// UpdateStatus sets a user's account status.
func (r *MockUserRepository) UpdateStatus(id string, status models.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return &UserNotFoundError{UserID: id}
	}
	user.Status = status
	r.users[id] = user
	return nil
}

// UpdateRole sets a user's role.
func (r *MockUserRepository) UpdateRole(id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return &UserNotFoundError{UserID: id}
	}
	user.Role = role
	r.users[id] = user
	return nil
}

// Stats counts users per approval state.
func (r *MockUserRepository) Stats() (*UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &UserStats{}
	for _, u := range r.users {
		stats.TotalUsers++
		if u.Status == models.UserStatusPending {
			stats.PendingApproval++
		}
	}
	return stats, nil
}

// MockAssignmentRepository is an in-memory implementation of
// AssignmentRepository.
type MockAssignmentRepository struct {
	assignments map[string]models.EmployeeCustomerAssignment
	mu          sync.RWMutex
}

// NewMockAssignmentRepository creates a new instance of MockAssignmentRepository.
func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{
		assignments: make(map[string]models.EmployeeCustomerAssignment),
	}
}

// Create records an assignment.
func (r *MockAssignmentRepository) Create(assignment *models.EmployeeCustomerAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	r.assignments[assignment.ID] = *assignment
	return nil
}

// Delete removes the assignment between an employee and a customer.
func (r *MockAssignmentRepository) Delete(employeeID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.assignments {
		if a.EmployeeID == employeeID && a.CustomerID == customerID {
			delete(r.assignments, id)
			return nil
		}
	}
	return &AssignmentNotFoundError{EmployeeID: employeeID, CustomerID: customerID}
}

// ListByEmployee returns all assignments for an employee.
func (r *MockAssignmentRepository) ListByEmployee(employeeID string) ([]models.EmployeeCustomerAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.EmployeeCustomerAssignment, 0)
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID {
			list = append(list, a)
		}
	}
	return list, nil
}

// ListAll returns every assignment.
func (r *MockAssignmentRepository) ListAll() ([]models.EmployeeCustomerAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.EmployeeCustomerAssignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		list = append(list, a)
	}
	return list, nil
}

// Exists reports whether the employee is assigned to the customer.
func (r *MockAssignmentRepository) Exists(employeeID, customerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assignments {
		if a.EmployeeID == employeeID && a.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}
