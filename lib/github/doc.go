// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package github is a typed client for the slice of the GitHub REST
// API that baseline reconciliation needs: refs, repository contents,
// pull requests, and issue comments. It handles token authentication,
// rate limit tracking with preemptive blocking, and structured API
// errors.
package github
