// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the tripdesk domain types.
//
// These mirror the backend's JSON resources: travel requests with their
// decision and booking records, users with roles, departments, projects,
// and the local-only draft type the request wizard saves.
//
// # Key Types
//
//   - TravelRequest: one trip request through its pending/approved/
//     rejected/booked/cancelled lifecycle
//   - NewRequestInput: the fields a requester supplies, with client-side
//     validation returning per-field errors
//   - User, Role: identity and the role-based capabilities derived from it
//   - Department, Project: organizational lookups cached locally
//   - Draft: an unsubmitted request kept on disk
//
// # Usage
//
//	in := model.NewRequestInput{Origin: "AMS", Destination: "LIS", ...}
//	if errs := in.Validate(); len(errs) > 0 {
//	    // render inline, field by field
//	}
package model
