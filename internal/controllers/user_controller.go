package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/toyz/usersapi/internal/errors"
	"github.com/toyz/usersapi/internal/middleware"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/services"
	"github.com/toyz/usersapi/pkg/axon"
)

// BasePath is the root every user route hangs off
const BasePath = "/api/users"

// SkippedRowsHeader reports how many unreadable rows a listing left out
const SkippedRowsHeader = "X-Skipped-Rows"

// UserController exposes UserService over HTTP
type UserController struct {
	UserService *services.UserService
}

// NewUserController creates a UserController
func NewUserController(service *services.UserService) *UserController {
	return &UserController{UserService: service}
}

// GET /
func (uc *UserController) ListUsers(c axon.RequestContext) error {
	result, err := uc.UserService.List(c.Context())
	if err != nil {
		return uc.fail(c, err)
	}
	resp := axon.OK(result.Users)
	if result.Skipped > 0 {
		resp.WithHeader(SkippedRowsHeader, strconv.Itoa(result.Skipped))
	}
	return resp.Write(c)
}

// GET /{id:int}
func (uc *UserController) GetUser(c axon.RequestContext) error {
	id, err := pathID(c)
	if err != nil {
		return uc.fail(c, err)
	}
	user, err := uc.UserService.Get(c.Context(), id)
	if err != nil {
		return uc.fail(c, err)
	}
	return axon.OK(user).Write(c)
}

// POST /
func (uc *UserController) CreateUser(c axon.RequestContext) error {
	info := requestInfo(c)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return uc.fail(c, uc.UserService.Reject(c.Context(), info, 0, models.OperationCreateUser, bodyError(err)))
	}

	user, err := uc.UserService.Create(c.Context(), info, req)
	if err != nil {
		return uc.fail(c, err)
	}
	return axon.Created(user).
		WithHeader("Location", fmt.Sprintf("%s/%d", BasePath, user.ID)).
		Write(c)
}

// PUT /{id:int}
func (uc *UserController) UpdateUser(c axon.RequestContext) error {
	info := requestInfo(c)

	id, err := pathID(c)
	if err != nil {
		return uc.fail(c, uc.UserService.Reject(c.Context(), info, 0, models.OperationUpdateUser, err))
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return uc.fail(c, uc.UserService.Reject(c.Context(), info, id, models.OperationUpdateUser, bodyError(err)))
	}

	if err := uc.UserService.Update(c.Context(), info, id, req); err != nil {
		return uc.fail(c, err)
	}
	return axon.OK("User data updated").Write(c)
}

// PUT /{id:int}/email
func (uc *UserController) UpdateEmail(c axon.RequestContext) error {
	info := requestInfo(c)

	id, err := pathID(c)
	if err != nil {
		return uc.fail(c, uc.UserService.Reject(c.Context(), info, 0, models.OperationUpdateEmail, err))
	}

	var req models.UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return uc.fail(c, uc.UserService.Reject(c.Context(), info, id, models.OperationUpdateEmail, bodyError(err)))
	}

	result, err := uc.UserService.UpdateEmail(c.Context(), info, id, req)
	if err != nil {
		return uc.fail(c, err)
	}
	return axon.OK(result).Write(c)
}

// DELETE /{id:int}
func (uc *UserController) DeleteUser(c axon.RequestContext) error {
	info := requestInfo(c)

	id, err := pathID(c)
	if err != nil {
		return uc.fail(c, uc.UserService.Reject(c.Context(), info, 0, models.OperationDeleteUser, err))
	}

	if err := uc.UserService.Delete(c.Context(), info, id); err != nil {
		return uc.fail(c, err)
	}
	return axon.OK(fmt.Sprintf("User with ID %d deleted", id)).Write(c)
}

// GET /logs?userId=&limit=
func (uc *UserController) ListLogs(c axon.RequestContext) error {
	query := axon.NewQueryMap(c)

	var q models.LogQuery
	if userID, ok, err := query.LookupInt("userId"); err != nil {
		return uc.fail(c, errors.NewParameterError("userId", err.Error()))
	} else if ok {
		q.UserID = &userID
	}
	limit, _, err := query.LookupInt("limit")
	if err != nil {
		return uc.fail(c, errors.NewParameterError("limit", err.Error()))
	}
	q.Limit = limit

	logs, err := uc.UserService.ListLogs(c.Context(), q)
	if err != nil {
		return c.Response().JSON(http.StatusInternalServerError,
			models.NewApiErrorResponse("Error while retrieving logs", models.ErrorTypeLogRetrieval, middleware.RequestID(c)).
				WithDetail("ErrorMessage", err.Error()))
	}
	return axon.OK(logs).Write(c)
}

// GET /logs/stats
func (uc *UserController) LogStats(c axon.RequestContext) error {
	stats, err := uc.UserService.LogStatistics(c.Context())
	if err != nil {
		return c.Response().JSON(http.StatusInternalServerError,
			models.NewApiErrorResponse("Error while retrieving log statistics", models.ErrorTypeLogStats, middleware.RequestID(c)).
				WithDetail("ErrorMessage", err.Error()))
	}
	if stats == nil {
		return axon.OK(models.MessageResponse{Message: "No data in logs"}).Write(c)
	}
	return axon.OK(stats).Write(c)
}

// fail renders the failures this controller knows how to describe and hands
// everything else to the global error middleware.
func (uc *UserController) fail(c axon.RequestContext, err error) error {
	requestID := middleware.RequestID(c)

	var (
		vErr  *errors.ValidationError
		nfErr *errors.NotFoundError
		dbErr *errors.DatabaseError
		bErr  *errors.BusinessError
	)
	switch {
	case errors.As(err, &vErr):
		resp := models.NewApiErrorResponse("Validation failed", errors.ValidationErrorCode.String(), requestID).
			WithDetail("ValidationError", strings.Join(vErr.Messages(), "; "))
		for _, v := range vErr.Violations {
			resp.WithDetail(v.Field, v.Message)
		}
		if vErr.Parameter != "" {
			resp.WithDetail(vErr.Parameter, vErr.Message)
		}
		return c.Response().JSON(http.StatusBadRequest, resp)

	case errors.As(err, &nfErr):
		return c.Response().JSON(http.StatusNotFound,
			models.NewApiErrorResponse(nfErr.Error(), errors.NotFoundErrorCode.String(), requestID))

	case errors.As(err, &dbErr):
		return c.Response().JSON(http.StatusInternalServerError,
			models.NewApiErrorResponse(fmt.Sprintf("Error while executing operation '%s'", dbErr.Operation), errors.DatabaseErrorCode.String(), requestID).
				WithDetail("SqliteErrorCode", strconv.Itoa(dbErr.ResultCode)).
				WithDetail("ErrorMessage", dbErr.Detail))

	case errors.As(err, &bErr):
		return c.Response().JSON(http.StatusBadRequest, models.BusinessFailure{Message: bErr.Message, Reason: bErr.Reason})
	}
	return err
}

func requestInfo(c axon.RequestContext) models.RequestInfo {
	return models.RequestInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().Header("User-Agent"),
	}.Normalize()
}

func pathID(c axon.RequestContext) (int, error) {
	id, err := axon.ParseInt(c, "id")
	if err != nil {
		return 0, errors.NewParameterError("id", err.Error())
	}
	return id, nil
}

func bodyError(err error) error {
	return errors.NewParameterError("body", "request body is not valid JSON: "+err.Error())
}
