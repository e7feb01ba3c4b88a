// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jeranaias/tripdesk-tui/internal/model"
)

// =============================================================================
// AUTH
// =============================================================================

// loginRequest goes out through the key-casing transform like every
// other body, so the wire sees Email/Password.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the backend's login envelope.
type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login authenticates and persists the returned token and profile.
// A successful login re-arms the once-per-expiry 401 handling.
func (g *Gateway) Login(ctx context.Context, email, password string) (*model.User, error) {
	body, err := g.do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, newAPIError(ErrServer, 0, "bad_login_response",
			"login response missing token or user")
	}

	if err := g.creds.SaveCredentials(resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("login succeeded but credentials could not be saved: %w", err)
	}
	g.ResetSessionExpiry()

	log.Printf("API Auth: logged in as %s (%s)", resp.User.Email, resp.User.Role)
	return resp.User, nil
}

// Logout clears stored credentials. Purely local: the backend holds no
// session state for bearer tokens.
func (g *Gateway) Logout() error {
	return g.creds.Clear()
}

// Health checks backend reachability. Public path, no token needed.
func (g *Gateway) Health(ctx context.Context) error {
	_, err := g.do(ctx, http.MethodGet, "/health", nil)
	return err
}

// =============================================================================
// TRAVEL REQUESTS
// =============================================================================

// Requests lists every travel request. Backend limits this view to
// travel admins and administrators; others receive 403.
func (g *Gateway) Requests(ctx context.Context) ([]model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodGet, "/TravelRequest", nil)
	if err != nil {
		return nil, err
	}

	var requests []model.TravelRequest
	if err := decodeJSON(body, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// RequestsByUser lists the requests a user has submitted. A brand-new
// user has none, which the backend reports as 404; that decodes here as
// an empty slice, not an error.
func (g *Gateway) RequestsByUser(ctx context.Context, userID int) ([]model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("/TravelRequest/user/%d", userID), nil)
	if err != nil {
		return nil, err
	}

	var requests []model.TravelRequest
	if err := decodeJSON(body, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// RequestsByApprover lists the requests awaiting a manager's decision.
// Same empty-collection 404 contract as RequestsByUser.
func (g *Gateway) RequestsByApprover(ctx context.Context, approverID int) ([]model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("/TravelRequest/approver/%d", approverID), nil)
	if err != nil {
		return nil, err
	}

	var requests []model.TravelRequest
	if err := decodeJSON(body, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Request fetches a single travel request. 404 here is a real error.
func (g *Gateway) Request(ctx context.Context, id int) (*model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("/TravelRequest/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var request model.TravelRequest
	if err := decodeJSON(body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// CreateRequest submits a new travel request.
func (g *Gateway) CreateRequest(ctx context.Context, input model.NewRequestInput) (*model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodPost, "/TravelRequest", input)
	if err != nil {
		return nil, err
	}

	var request model.TravelRequest
	if err := decodeJSON(body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateRequest replaces a pending request's trip details.
func (g *Gateway) UpdateRequest(ctx context.Context, id int, input model.NewRequestInput) (*model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodPut, fmt.Sprintf("/TravelRequest/%d", id), input)
	if err != nil {
		return nil, err
	}

	var request model.TravelRequest
	if err := decodeJSON(body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// CancelRequest withdraws a request. Only the requester may cancel, and
// only before booking; the backend enforces both.
func (g *Gateway) CancelRequest(ctx context.Context, id int) error {
	_, err := g.do(ctx, http.MethodDelete, fmt.Sprintf("/TravelRequest/%d", id), nil)
	return err
}

// =============================================================================
// DECISIONS AND BOOKINGS
// =============================================================================

// decisionRequest carries a manager's verdict. Approved=false must
// survive the transform: rejecting is exactly as meaningful as
// approving.
type decisionRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note,omitempty"`
}

// SubmitDecision approves or rejects a pending request.
func (g *Gateway) SubmitDecision(ctx context.Context, id int, approve bool, note string) (*model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodPost, fmt.Sprintf("/TravelRequest/%d/decision", id), decisionRequest{
		Approved: approve,
		Note:     note,
	})
	if err != nil {
		return nil, err
	}

	var request model.TravelRequest
	if err := decodeJSON(body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// bookingRequest records the ticket a travel admin purchased.
// FinalCost 0 survives the transform (fully comped trips exist).
type bookingRequest struct {
	TicketRef string  `json:"ticketRef"`
	FinalCost float64 `json:"finalCost"`
}

// RecordBooking marks an approved request as booked.
func (g *Gateway) RecordBooking(ctx context.Context, id int, ticketRef string, finalCost float64) (*model.TravelRequest, error) {
	body, err := g.do(ctx, http.MethodPost, fmt.Sprintf("/TravelRequest/%d/booking", id), bookingRequest{
		TicketRef: ticketRef,
		FinalCost: finalCost,
	})
	if err != nil {
		return nil, err
	}

	var request model.TravelRequest
	if err := decodeJSON(body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// =============================================================================
// USERS
// =============================================================================

// Users lists all accounts. Administrator only.
func (g *Gateway) Users(ctx context.Context) ([]model.User, error) {
	body, err := g.do(ctx, http.MethodGet, "/User", nil)
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := decodeJSON(body, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserByID fetches a single account.
func (g *Gateway) UserByID(ctx context.Context, id int) (*model.User, error) {
	body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("/User/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decodeJSON(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserInput carries the fields an administrator sets on an account.
type UserInput struct {
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Password     string     `json:"password,omitempty"`
	Role         model.Role `json:"role"`
	DepartmentID int        `json:"departmentId"`
	ManagerID    int        `json:"managerId,omitempty"`
	Active       bool       `json:"active"`
}

// CreateUser creates an account. Administrator only.
func (g *Gateway) CreateUser(ctx context.Context, input UserInput) (*model.User, error) {
	body, err := g.do(ctx, http.MethodPost, "/User", input)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decodeJSON(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an account. Administrator only.
func (g *Gateway) UpdateUser(ctx context.Context, id int, input UserInput) (*model.User, error) {
	body, err := g.do(ctx, http.MethodPut, fmt.Sprintf("/User/%d", id), input)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decodeJSON(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deactivates an account. Administrator only.
func (g *Gateway) DeleteUser(ctx context.Context, id int) error {
	_, err := g.do(ctx, http.MethodDelete, fmt.Sprintf("/User/%d", id), nil)
	return err
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Departments lists all departments.
func (g *Gateway) Departments(ctx context.Context) ([]model.Department, error) {
	body, err := g.do(ctx, http.MethodGet, "/Department", nil)
	if err != nil {
		return nil, err
	}

	var departments []model.Department
	if err := decodeJSON(body, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// Department fetches one department. A 404 here is a real error: the
// caller asked for a specific ID that does not exist.
func (g *Gateway) Department(ctx context.Context, id int) (*model.Department, error) {
	body, err := g.do(ctx, http.MethodGet, fmt.Sprintf("/Department/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var department model.Department
	if err := decodeJSON(body, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// Projects lists all projects.
func (g *Gateway) Projects(ctx context.Context) ([]model.Project, error) {
	body, err := g.do(ctx, http.MethodGet, "/Project", nil)
	if err != nil {
		return nil, err
	}

	var projects []model.Project
	if err := decodeJSON(body, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// =============================================================================
// POLICY
// =============================================================================

// PolicyDoc is the company travel policy served as markdown.
type PolicyDoc struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Policy fetches the travel policy document.
func (g *Gateway) Policy(ctx context.Context) (*PolicyDoc, error) {
	body, err := g.do(ctx, http.MethodGet, "/policy", nil)
	if err != nil {
		return nil, err
	}

	var doc PolicyDoc
	if err := decodeJSON(body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
