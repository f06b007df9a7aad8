package services

import (
	"context"
	"fmt"

	"github.com/toyz/usersapi/internal/audit"
	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/internal/errors"
	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/repository"
)

// Validator checks request models
type Validator interface {
	Struct(s interface{}) error
}

// Business failure texts for email updates
const (
	EmailUpdateFailed = "Update failed"
	EmailNoMatch      = "User not found or name does not match"
)

// UserService implements the user operations. Every mutating call records
// exactly one audit entry, whatever the outcome.
type UserService struct {
	users     *repository.UserRepository
	logs      *repository.AuditRepository
	recorder  *audit.Recorder
	validator Validator
	config    *config.Config
	logger    *logging.AppLogger
}

// NewUserService creates a UserService
func NewUserService(
	users *repository.UserRepository,
	logs *repository.AuditRepository,
	recorder *audit.Recorder,
	validator Validator,
	cfg *config.Config,
	logger *logging.AppLogger,
) *UserService {
	return &UserService{
		users:     users,
		logs:      logs,
		recorder:  recorder,
		validator: validator,
		config:    cfg,
		logger:    logger,
	}
}

// List returns every readable user
func (s *UserService) List(ctx context.Context) (models.UserList, error) {
	result, err := s.users.List(ctx)
	if err != nil {
		return result, err
	}
	if result.Skipped > 0 {
		s.logger.Warn("skipped unreadable user rows", "skipped", result.Skipped)
	}
	return result, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	if id <= 0 {
		return nil, errors.InvalidID(id)
	}
	return s.users.Get(ctx, id)
}

// Create validates and stores a new user
func (s *UserService) Create(ctx context.Context, info models.RequestInfo, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.fail(ctx, info, 0, models.OperationCreateUser, err)
	}

	id, err := s.users.Insert(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, info, 0, models.OperationCreateUser, err)
	}

	s.recorder.Record(ctx, info, id, models.OperationCreateUser, models.StatusSuccess,
		fmt.Sprintf("created user: %s, %s", req.Name, req.Email))
	s.logger.Info("user created", "userId", id)

	return &models.User{ID: id, Name: req.Name, Email: req.Email, Age: req.Age}, nil
}

// Update replaces a user's fields. The update and its SUCCESS entry commit
// together; on failure the update is rolled back before the FAILED entry is
// written.
func (s *UserService) Update(ctx context.Context, info models.RequestInfo, id int, req models.UpdateUserRequest) error {
	if id <= 0 {
		return s.fail(ctx, info, id, models.OperationUpdateUser, errors.InvalidID(id))
	}
	if err := s.validator.Struct(req); err != nil {
		return s.fail(ctx, info, id, models.OperationUpdateUser, err)
	}

	entry := s.recorder.Entry(info, id, models.OperationUpdateUser, models.StatusSuccess,
		"updated fields: "+req.Describe())
	if err := s.users.UpdateWithAudit(ctx, id, req, entry); err != nil {
		return s.fail(ctx, info, id, models.OperationUpdateUser, err)
	}

	s.logger.Info("user updated", "userId", id)
	return nil
}

// UpdateEmail changes the email of the user whose id and current name both
// match
func (s *UserService) UpdateEmail(ctx context.Context, info models.RequestInfo, id int, req models.UpdateEmailRequest) (*models.EmailUpdateResult, error) {
	if id <= 0 {
		return nil, s.fail(ctx, info, id, models.OperationUpdateEmail, errors.InvalidID(id))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, s.fail(ctx, info, id, models.OperationUpdateEmail, err)
	}

	n, err := s.users.UpdateEmail(ctx, id, req.CurrentName, req.NewEmail)
	if err != nil {
		return nil, s.fail(ctx, info, id, models.OperationUpdateEmail, err)
	}
	if n == 0 {
		return nil, s.fail(ctx, info, id, models.OperationUpdateEmail, errors.NewBusinessError(EmailUpdateFailed, EmailNoMatch))
	}

	s.recorder.Record(ctx, info, id, models.OperationUpdateEmail, models.StatusSuccess,
		fmt.Sprintf("new email: %s, name check: %s", req.NewEmail, req.CurrentName))
	s.logger.Info("user email updated", "userId", id)

	return &models.EmailUpdateResult{
		Message:  "Email updated successfully",
		UserID:   id,
		NewEmail: req.NewEmail,
	}, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, info models.RequestInfo, id int) error {
	if id <= 0 {
		return s.fail(ctx, info, id, models.OperationDeleteUser, errors.InvalidID(id))
	}

	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return s.fail(ctx, info, id, models.OperationDeleteUser, err)
	}
	if n == 0 {
		return s.fail(ctx, info, id, models.OperationDeleteUser, errors.NewNotFoundError("User", id))
	}

	s.recorder.Record(ctx, info, id, models.OperationDeleteUser, models.StatusSuccess, fmt.Sprintf("deleted user %d", id))
	s.logger.Info("user deleted", "userId", id)
	return nil
}

// Reject records the FAILED entry for a mutating request that could not be
// decoded and returns err unchanged
func (s *UserService) Reject(ctx context.Context, info models.RequestInfo, userID int, op models.OperationType, err error) error {
	return s.fail(ctx, info, userID, op, err)
}

// ListLogs returns audit entries newest first. A missing or non-positive
// limit falls back to the configured default.
func (s *UserService) ListLogs(ctx context.Context, q models.LogQuery) (*models.LogList, error) {
	if q.Limit <= 0 {
		q.Limit = s.config.DefaultLogLimit
	}
	logs, err := s.logs.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &models.LogList{TotalLogs: len(logs), Logs: logs}, nil
}

// LogStatistics aggregates the audit table; nil means there is nothing to
// aggregate
func (s *UserService) LogStatistics(ctx context.Context) (*models.LogStatistics, error) {
	return s.logs.Statistics(ctx)
}

func (s *UserService) fail(ctx context.Context, info models.RequestInfo, userID int, op models.OperationType, err error) error {
	s.recorder.Record(ctx, info, userID, op, models.StatusFailed, FailureDetails(err))
	s.logger.Warn("user operation failed",
		"operation", string(op),
		"userId", userID,
		"kind", errors.CodeOf(err).String(),
		"error", err,
	)
	return err
}

// FailureDetails renders err for the details column of a FAILED entry
func FailureDetails(err error) string {
	switch errors.CodeOf(err) {
	case errors.ValidationErrorCode:
		return "validation: " + err.Error()
	case errors.NotFoundErrorCode:
		return "not found: " + err.Error()
	case errors.DatabaseErrorCode:
		return "database: " + err.Error()
	case errors.BusinessErrorCode:
		var be *errors.BusinessError
		if errors.As(err, &be) {
			return be.Reason
		}
		return err.Error()
	default:
		return "unexpected: " + err.Error()
	}
}
