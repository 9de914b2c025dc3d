// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// NotificationKind classifies a status message shown to the operator.
type NotificationKind int

const (
	KindNone NotificationKind = iota
	KindSuccess
	KindError
)

func (k NotificationKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "none"
	}
}

// Notification is a transient status message. The zero value is the
// "nothing to show" state.
type Notification struct {
	Kind NotificationKind
	Text string
}

// Active reports whether the notification should be displayed.
func (n Notification) Active() bool {
	return n.Kind != KindNone && n.Text != ""
}

// Success builds a success notification.
func Success(text string) Notification {
	return Notification{Kind: KindSuccess, Text: text}
}

// Failure builds an error notification.
func Failure(text string) Notification {
	return Notification{Kind: KindError, Text: text}
}
