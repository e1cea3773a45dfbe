// TheLogicalProject - Event-Driven Relation Synchronization
// Copyright 2026 Yael Goede (yaelgoede)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/yaelgoede/TheLogicalProject

package events

import "fmt"

// DecodeError reports an event body that cannot be turned into an envelope.
// Consumers log these and acknowledge the message: a malformed event is
// never retried.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("envelope decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("envelope decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
