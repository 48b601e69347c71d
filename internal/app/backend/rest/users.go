package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yigit/cuetclass/internal/app/models"
)

const usersPath = "/api/admin/users"

// Users implements backend.UserActions
func (c *Client) Users(ctx context.Context, role models.RoleType) ([]models.User, error) {
	path := usersPath
	if role != "" {
		path += "?" + url.Values{"role": {string(role)}}.Encode()
	}
	var out []models.User
	return out, c.do(ctx, http.MethodGet, path, "", nil, &out)
}

// CreateUser implements backend.UserActions
func (c *Client) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	var out models.User
	return out, c.do(ctx, http.MethodPost, usersPath, "", in, &out)
}

// UpdateUser implements backend.UserActions
func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserInput) (models.User, error) {
	var out models.User
	return out, c.do(ctx, http.MethodPut, usersPath+"/"+escape(id), "", in, &out)
}

// DeleteUser implements backend.UserActions
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, usersPath+"/"+escape(id), "", nil, nil)
}

// SetClassRepresentative implements backend.UserActions
func (c *Client) SetClassRepresentative(ctx context.Context, id string, cr bool) (models.User, error) {
	action := "/demote-cr"
	if cr {
		action = "/promote-cr"
	}
	var out models.User
	return out, c.do(ctx, http.MethodPost, usersPath+"/"+escape(id)+action, "", nil, &out)
}

func teacherClassPath(classID, rest string) string {
	return "/api/teacher/classes/" + escape(classID) + rest
}

// Roster implements backend.TeacherActions
func (c *Client) Roster(ctx context.Context, classID string) ([]models.User, error) {
	var out []models.User
	return out, c.do(ctx, http.MethodGet, teacherClassPath(classID, "/students"), "", nil, &out)
}

// Attendance implements backend.TeacherActions
func (c *Client) Attendance(ctx context.Context, classID, date string) ([]models.AttendanceMark, error) {
	path := teacherClassPath(classID, "/attendance?"+url.Values{"date": {date}}.Encode())
	var out []models.AttendanceMark
	return out, c.do(ctx, http.MethodGet, path, "", nil, &out)
}

// SaveAttendance implements backend.TeacherActions
func (c *Client) SaveAttendance(ctx context.Context, sheet models.AttendanceSheet) error {
	return c.do(ctx, http.MethodPost, teacherClassPath(sheet.ClassID, "/attendance"), sheet.MarkedBy, sheet, nil)
}
