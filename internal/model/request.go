// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for travel requests, users,
// and organizational lookups.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// REQUEST STATUS
// =============================================================================

// RequestStatus is the lifecycle state of a travel request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusBooked    RequestStatus = "booked"
	StatusCancelled RequestStatus = "cancelled"
)

// String returns the display string for the status.
func (s RequestStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusBooked:
		return "Booked"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusBooked || s == StatusCancelled
}

// ParseRequestStatus parses a status string, tolerating case variations.
// Returns StatusPending and false for unrecognized input.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "approved":
		return StatusApproved, true
	case "rejected":
		return StatusRejected, true
	case "booked":
		return StatusBooked, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	default:
		return StatusPending, false
	}
}

// AllStatuses lists every status in lifecycle order, for filters and help text.
func AllStatuses() []RequestStatus {
	return []RequestStatus{StatusPending, StatusApproved, StatusRejected, StatusBooked, StatusCancelled}
}

// =============================================================================
// TRAVEL REQUEST
// =============================================================================

// TravelRequest is a single travel request as served by the backend.
// Field tags match the backend's response casing; outbound payloads are
// re-cased by the gateway, so these tags only govern decoding.
type TravelRequest struct {
	// Identity
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Requester
	UserID   int    `json:"userId"`
	UserName string `json:"userName,omitempty"`

	// Organizational assignment
	DepartmentID   int    `json:"departmentId"`
	DepartmentName string `json:"departmentName,omitempty"`
	ProjectID      int    `json:"projectId"`
	ProjectName    string `json:"projectName,omitempty"`

	// Trip
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate time.Time `json:"departureDate"`
	ReturnDate    time.Time `json:"returnDate"`
	Purpose       string    `json:"purpose"`
	EstimatedCost float64   `json:"estimatedCost"`

	// Decision
	Status       RequestStatus `json:"status"`
	ApproverID   int           `json:"approverId,omitempty"`
	ApproverName string        `json:"approverName,omitempty"`
	DecisionNote string        `json:"decisionNote,omitempty"`

	// Booking (set once a travel admin books the trip)
	Booking *Booking `json:"booking,omitempty"`
}

// Booking holds the ticket details recorded when a trip is booked.
type Booking struct {
	TicketRef  string    `json:"ticketRef"`
	FinalCost  float64   `json:"finalCost"`
	BookedByID int       `json:"bookedById"`
	BookedBy   string    `json:"bookedBy,omitempty"`
	BookedAt   time.Time `json:"bookedAt"`
}

// TripDays returns the inclusive day span of the trip, minimum 1.
func (r *TravelRequest) TripDays() int {
	if r.ReturnDate.Before(r.DepartureDate) {
		return 1
	}
	days := int(r.ReturnDate.Sub(r.DepartureDate).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Route returns "Origin -> Destination" for list displays.
func (r *TravelRequest) Route() string {
	return r.Origin + " -> " + r.Destination
}

// IsDecided reports whether a manager has acted on the request.
func (r *TravelRequest) IsDecided() bool {
	return r.Status != StatusPending
}

// =============================================================================
// DECISIONS
// =============================================================================

// Decision is a manager's approve/reject action on a pending request.
type Decision struct {
	RequestID int    `json:"requestId"`
	Approve   bool   `json:"approve"`
	Note      string `json:"note,omitempty"`
}

// NewRequestInput carries the fields a requester supplies when creating
// a travel request. Zero-valued optional fields are dropped by the
// gateway's outbound transform.
type NewRequestInput struct {
	DepartmentID  int       `json:"departmentId"`
	ProjectID     int       `json:"projectId"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate time.Time `json:"departureDate"`
	ReturnDate    time.Time `json:"returnDate"`
	Purpose       string    `json:"purpose"`
	EstimatedCost float64   `json:"estimatedCost"`
}

// Validate checks the input client-side before it is ever sent.
func (in *NewRequestInput) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(in.Origin) == "" {
		errs = append(errs, FieldError{Field: "origin", Message: "origin is required"})
	}
	if strings.TrimSpace(in.Destination) == "" {
		errs = append(errs, FieldError{Field: "destination", Message: "destination is required"})
	}
	if strings.TrimSpace(in.Purpose) == "" {
		errs = append(errs, FieldError{Field: "purpose", Message: "purpose is required"})
	}
	if in.DepartureDate.IsZero() {
		errs = append(errs, FieldError{Field: "departureDate", Message: "departure date is required"})
	}
	if in.ReturnDate.IsZero() {
		errs = append(errs, FieldError{Field: "returnDate", Message: "return date is required"})
	}
	if !in.DepartureDate.IsZero() && !in.ReturnDate.IsZero() && in.ReturnDate.Before(in.DepartureDate) {
		errs = append(errs, FieldError{Field: "returnDate", Message: "return date precedes departure"})
	}
	if in.EstimatedCost < 0 {
		errs = append(errs, FieldError{Field: "estimatedCost", Message: "estimated cost cannot be negative"})
	}
	return errs
}

// FieldError is a client-side validation failure for a single field.
// These render inline in forms and never reach the network.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}
