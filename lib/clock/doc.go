// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source. The baseline
// reconciliation retry loop and the GitHub client's rate-limit backoff
// both sleep; injecting a FakeClock keeps their tests instantaneous
// and deterministic.
package clock
