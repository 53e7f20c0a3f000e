package repositories

import (
	"fmt"
	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAssignmentRepository is a GORM implementation of AssignmentRepository.
type GORMAssignmentRepository struct {
	db *gorm.DB
}

// NewGORMAssignmentRepository creates a new instance of GORMAssignmentRepository.
func NewGORMAssignmentRepository(db *gorm.DB) *GORMAssignmentRepository {
	return &GORMAssignmentRepository{
		db: db,
	}
}

// Create records an employee-customer assignment.
func (r *GORMAssignmentRepository) Create(assignment *models.EmployeeCustomerAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	if err := r.db.Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// Delete removes the assignment between an employee and a customer.
func (r *GORMAssignmentRepository) Delete(employeeID, customerID string) error {
	res := r.db.Where("employee_id = ? AND customer_id = ?", employeeID, customerID).
		Delete(&models.EmployeeCustomerAssignment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &AssignmentNotFoundError{EmployeeID: employeeID, CustomerID: customerID}
	}
	return nil
}

// ListByEmployee retrieves all assignments for an employee, newest first.
func (r *GORMAssignmentRepository) ListByEmployee(employeeID string) ([]models.EmployeeCustomerAssignment, error) {
	var assignments []models.EmployeeCustomerAssignment
	if err := r.db.Preload("Customer").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments for employee %s: %w", employeeID, err)
	}
	return assignments, nil
}

// ListAll retrieves every assignment, newest first.
func (r *GORMAssignmentRepository) ListAll() ([]models.EmployeeCustomerAssignment, error) {
	var assignments []models.EmployeeCustomerAssignment
	if err := r.db.Preload("Employee").Preload("Customer").
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// Exists reports whether the employee is assigned to the customer.
func (r *GORMAssignmentRepository) Exists(employeeID, customerID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.EmployeeCustomerAssignment{}).
		Where("employee_id = ? AND customer_id = ?", employeeID, customerID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}
