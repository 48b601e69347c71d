// Package rest implements the backend ports against the class-management JSON API
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/backend"
	"github.com/yigit/cuetclass/internal/app/models"
)

// userHeader carries the acting user to the API
const userHeader = "X-User-ID"

// Client talks to the API over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

var _ backend.Backend = (*Client)(nil)

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// apiError is the error body returned by the API
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path, userID string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userHeader, userID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return fmt.Errorf("%s %s: %v: %w", method, path, err, backend.ErrUnavailable)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode >= http.StatusBadRequest {
		var e apiError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Error
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s %s: %s: %w", method, path, msg, statusError(resp.StatusCode))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code == http.StatusNotFound:
		return backend.ErrNotFound
	case code == http.StatusConflict:
		return backend.ErrConflict
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return backend.ErrValidation
	default:
		return backend.ErrUnavailable
	}
}

func escape(id string) string { return url.PathEscape(id) }

// Departments implements backend.Catalog
func (c *Client) Departments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	return out, c.do(ctx, http.MethodGet, "/api/admin/departments", "", nil, &out)
}

// Courses implements backend.Catalog
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	return out, c.do(ctx, http.MethodGet, "/api/admin/courses", "", nil, &out)
}

// Classes implements backend.Catalog
func (c *Client) Classes(ctx context.Context) ([]models.Class, error) {
	var out []models.Class
	return out, c.do(ctx, http.MethodGet, "/api/admin/classes", "", nil, &out)
}

// Teachers implements backend.Catalog
func (c *Client) Teachers(ctx context.Context) ([]models.Teacher, error) {
	var out []models.Teacher
	return out, c.do(ctx, http.MethodGet, "/api/admin/users?role="+string(models.RoleTeacher), "", nil, &out)
}

// Stats implements backend.Catalog
func (c *Client) Stats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	return out, c.do(ctx, http.MethodGet, "/api/admin/stats", "", nil, &out)
}

// CreateDepartment implements backend.AdminActions
func (c *Client) CreateDepartment(ctx context.Context, in models.DepartmentInput) (models.Department, error) {
	var out models.Department
	return out, c.do(ctx, http.MethodPost, "/api/admin/departments", "", in, &out)
}

// UpdateDepartment implements backend.AdminActions
func (c *Client) UpdateDepartment(ctx context.Context, id string, in models.DepartmentInput) (models.Department, error) {
	var out models.Department
	return out, c.do(ctx, http.MethodPut, "/api/admin/departments/"+escape(id), "", in, &out)
}

// DeleteDepartment implements backend.AdminActions
func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/departments/"+escape(id), "", nil, nil)
}

// CreateCourse implements backend.AdminActions
func (c *Client) CreateCourse(ctx context.Context, in models.CourseInput) (models.Course, error) {
	var out models.Course
	return out, c.do(ctx, http.MethodPost, "/api/admin/courses", "", in, &out)
}

// UpdateCourse implements backend.AdminActions
func (c *Client) UpdateCourse(ctx context.Context, id string, in models.CourseInput) (models.Course, error) {
	var out models.Course
	return out, c.do(ctx, http.MethodPut, "/api/admin/courses/"+escape(id), "", in, &out)
}

// DeleteCourse implements backend.AdminActions
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/courses/"+escape(id), "", nil, nil)
}

// CreateClass implements backend.AdminActions
func (c *Client) CreateClass(ctx context.Context, in models.ClassInput) (models.Class, error) {
	var out models.Class
	return out, c.do(ctx, http.MethodPost, "/api/admin/classes", "", in, &out)
}

// UpdateClass implements backend.AdminActions
func (c *Client) UpdateClass(ctx context.Context, id string, in models.ClassInput) (models.Class, error) {
	var out models.Class
	return out, c.do(ctx, http.MethodPut, "/api/admin/classes/"+escape(id), "", in, &out)
}

// DeleteClass implements backend.AdminActions
func (c *Client) DeleteClass(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/classes/"+escape(id), "", nil, nil)
}

// ClassOfferings implements backend.StudentActions
func (c *Client) ClassOfferings(ctx context.Context, studentID string) ([]models.ClassOffering, error) {
	var out []models.ClassOffering
	return out, c.do(ctx, http.MethodGet, "/api/student/available-classes", studentID, nil, &out)
}

// enrollRequest is the body of an enrollment request
type enrollRequest struct {
	ClassID string `json:"classId"`
}

// Enroll implements backend.StudentActions
func (c *Client) Enroll(ctx context.Context, studentID, classID string) (models.Enrollment, error) {
	var out models.Enrollment
	return out, c.do(ctx, http.MethodPost, "/api/student/enrollments/request", studentID, enrollRequest{ClassID: classID}, &out)
}

const globalNoticesPath = "/api/shared/notices/global"

// Notices implements backend.TeacherActions. Global notices are listed for
// every class; an empty classID lists only those.
func (c *Client) Notices(ctx context.Context, classID string) ([]models.Notice, error) {
	var global []models.Notice
	if err := c.do(ctx, http.MethodGet, globalNoticesPath, "", nil, &global); err != nil {
		return nil, err
	}
	if classID == "" {
		return global, nil
	}

	var scoped []models.Notice
	if err := c.do(ctx, http.MethodGet, "/api/teacher/classes/"+escape(classID)+"/notices", "", nil, &scoped); err != nil {
		return nil, err
	}
	out := append(scoped, global...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// PostNotice implements backend.TeacherActions; input without a class goes to the global board
func (c *Client) PostNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error) {
	path := "/api/teacher/notices"
	if in.ClassID == "" {
		path = "/api/admin/notices/global"
	}
	var out models.Notice
	return out, c.do(ctx, http.MethodPost, path, in.CreatedBy, in, &out)
}
