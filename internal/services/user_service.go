// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/utils"
)

type UserService struct {
	db                  *gorm.DB
	logger              *logrus.Logger
	notificationService *NotificationService
}

type UserFilter struct {
	utils.PaginationParams
	UserType      *models.UserType   `json:"user_type,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	Verified      *bool              `json:"verified,omitempty"`
	Newsletter    *bool              `json:"newsletter,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type ApplicationFilter struct {
	utils.PaginationParams
	Status   *models.ApplicationStatus `json:"status,omitempty"`
	Position string                    `json:"position,omitempty"`
}

func NewUserService(db *gorm.DB, logger *logrus.Logger, notificationService *NotificationService) *UserService {
	return &UserService{
		db:                  db,
		logger:              logger,
		notificationService: notificationService,
	}
}

func (s *UserService) GetUsers(filter UserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Verified != nil {
		query = query.Where("identity_verified = ?", *filter.Verified)
	}
	if filter.Newsletter != nil {
		query = query.Where("newsletter_opt_in = ?", *filter.Newsletter)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "username", "email", "user_type", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *UserService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Listings").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

// UpdateUserStatus suspends, reactivates, or bans an account. Admin
// accounts cannot be modified through this path.
func (s *UserService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.UserType == models.UserTypeAdmin {
		return nil, fmt.Errorf("%w: cannot modify admin user status", ErrForbidden)
	}

	if user.Status == status {
		return nil, fmt.Errorf("%w: user already %s", ErrConflict, status)
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	go func() {
		if err := s.notificationService.SendUserStatusChangeNotification(&user, oldStatus, reason); err != nil {
			s.logger.WithError(err).Warn("failed to send user status notification")
		}
	}()

	return &user, nil
}

// GetNewsletterSubscribers returns every active account opted into the
// newsletter; backs the newsletter CSV export.
func (s *UserService) GetNewsletterSubscribers() ([]models.User, error) {
	var users []models.User
	err := s.db.Model(&models.User{}).
		Where("newsletter_opt_in = ? AND status = ?", true, models.UserStatusActive).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch newsletter subscribers: %w", err)
	}

	return users, nil
}

// Job applications

func (s *UserService) GetJobApplications(filter ApplicationFilter) ([]models.JobApplication, int64, error) {
	query := s.db.Model(&models.JobApplication{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count job applications: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "full_name", "position", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var applications []models.JobApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch job applications: %w", err)
	}

	return applications, total, nil
}

func (s *UserService) ReviewJobApplication(applicationID uuid.UUID, status models.ApplicationStatus, adminID uuid.UUID) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := s.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job application", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldStatus := application.Status
	now := time.Now()
	application.Status = status
	application.ReviewedBy = &adminID
	application.ReviewedAt = &now

	if err := s.db.Save(&application).Error; err != nil {
		return nil, fmt.Errorf("failed to update job application: %w", err)
	}

	go s.createAuditLog(adminID, "REVIEW_JOB_APPLICATION", "job_application", &applicationID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status})

	return &application, nil
}

func (s *UserService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
