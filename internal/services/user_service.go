package services

import (
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// UserService handles user directory and assignment management.
type UserService struct {
	userRepo       repositories.UserRepository
	assignmentRepo repositories.AssignmentRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, assignmentRepo repositories.AssignmentRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ListUsers lists users for staff. Customer listings only include activated
// accounts, matching what staff can actually act on.
func (s *UserService) ListUsers(requesterID string, filter repositories.UserFilter) ([]models.User, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	if !requester.IsStaff() {
		return nil, &PermissionError{Message: "you do not have permission to list users"}
	}
	if filter.Role == models.RoleCustomer && filter.Status == "" {
		filter.Status = models.UserStatusActive
	}
	return s.userRepo.List(filter)
}

// UpdateUserStatus sets a user's account status. Manager only.
func (s *UserService) UpdateUserStatus(requesterID, targetID string, status models.UserStatus) (*models.User, error) {
	if err := s.requireManager(requesterID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status: %s", status)}
	}
	if err := s.userRepo.UpdateStatus(targetID, status); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(targetID)
}

// UpdateUserRole sets a user's role. Manager only.
func (s *UserService) UpdateUserRole(requesterID, targetID string, role models.Role) (*models.User, error) {
	if err := s.requireManager(requesterID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: fmt.Sprintf("invalid role: %s", role)}
	}
	if err := s.userRepo.UpdateRole(targetID, role); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(targetID)
}

// Stats returns user directory statistics. Manager only.
func (s *UserService) Stats(requesterID string) (*repositories.UserStats, error) {
	if err := s.requireManager(requesterID); err != nil {
		return nil, err
	}
	return s.userRepo.Stats()
}

// AssignCustomer links a customer to an employee. Manager only.
func (s *UserService) AssignCustomer(requesterID, employeeID, customerID string) (*models.EmployeeCustomerAssignment, error) {
	if err := s.requireManager(requesterID); err != nil {
		return nil, err
	}

	employee, err := s.userRepo.GetByID(employeeID)
	if err != nil {
		return nil, &ValidationError{Field: "employee_id", Message: "specified employee does not exist"}
	}
	if employee.Role != models.RoleEmployee {
		return nil, &ValidationError{Field: "employee_id", Message: "the employee user must have the role EMPLOYEE"}
	}
	customer, err := s.userRepo.GetByID(customerID)
	if err != nil {
		return nil, &ValidationError{Field: "customer_id", Message: "specified customer does not exist"}
	}
	if customer.Role != models.RoleCustomer {
		return nil, &ValidationError{Field: "customer_id", Message: "the customer user must have the role CUSTOMER"}
	}

	exists, err := s.assignmentRepo.Exists(employeeID, customerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ValidationError{Field: "customer_id", Message: "customer is already assigned to this employee"}
	}

	assignment := &models.EmployeeCustomerAssignment{
		EmployeeID:   employeeID,
		CustomerID:   customerID,
		AssignedByID: requesterID,
	}
	if err := s.assignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// UnassignCustomer removes an employee-customer link. Manager only.
func (s *UserService) UnassignCustomer(requesterID, employeeID, customerID string) error {
	if err := s.requireManager(requesterID); err != nil {
		return err
	}
	return s.assignmentRepo.Delete(employeeID, customerID)
}

// ListAssignments lists assignments. Managers see all (optionally filtered by
// employee); employees see only their own.
func (s *UserService) ListAssignments(requesterID, employeeID string) ([]models.EmployeeCustomerAssignment, error) {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}
	switch requester.Role {
	case models.RoleManager:
		if employeeID != "" {
			return s.assignmentRepo.ListByEmployee(employeeID)
		}
		return s.assignmentRepo.ListAll()
	case models.RoleEmployee:
		return s.assignmentRepo.ListByEmployee(requester.ID)
	default:
		return nil, &PermissionError{Message: "you do not have permission to list assignments"}
	}
}

func (s *UserService) requireManager(requesterID string) error {
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return fmt.Errorf("failed to resolve requester: %w", err)
	}
	if requester.Role != models.RoleManager {
		return &PermissionError{Message: "you do not have permission to perform this action"}
	}
	return nil
}
