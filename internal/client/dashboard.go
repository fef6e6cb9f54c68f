// ABOUTME: Dashboard reads for the HR and employee views
// ABOUTME: Both require a bearer token and fire the unauthorized event on 401

package client

import (
	"context"
	"net/http"
)

// HRMetrics calls GET /dashboard/hr
func (c *Client) HRMetrics(ctx context.Context) (*HRMetrics, error) {
	var m HRMetrics
	err := c.do(ctx, call{
		op:     "dashboard_hr",
		method: http.MethodGet,
		path:   "/dashboard/hr",
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EmployeeDashboard calls GET /dashboard/employee
func (c *Client) EmployeeDashboard(ctx context.Context) (*EmployeeDashboard, error) {
	var d EmployeeDashboard
	err := c.do(ctx, call{
		op:     "dashboard_employee",
		method: http.MethodGet,
		path:   "/dashboard/employee",
	}, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
