package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrNotFound is returned for a syntactically valid identifier with no
	// matching record.
	ErrNotFound = errors.New("event not found")

	// ErrInvalidID is returned when an identifier does not have ULID syntax,
	// independent of whether a record exists.
	ErrInvalidID = errors.New("invalid event id")
)

// Event is a stored crash/event record. ID and CreatedAt are assigned by the
// storage layer at insertion and are immutable afterward.
type Event struct {
	ID        string
	CreatedAt time.Time
	Payload   Payload
}

// Payload is the client-supplied portion of an event. It is both the decoded
// request shape and the canonical normalized form; Validate produces the
// latter from the former.
type Payload struct {
	AppID       string            `json:"app_id" validate:"required"`
	Message     string            `json:"message" validate:"required"`
	Level       string            `json:"level,omitempty"`
	EventType   string            `json:"event_type,omitempty"`
	Stacktrace  string            `json:"stacktrace,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	UserID      string            `json:"user_id,omitempty"`
	DeviceID    string            `json:"device_id,omitempty"`
	Device      *DeviceInfo       `json:"device,omitempty"`
	App         *AppInfo          `json:"app,omitempty"`
	SDK         *SDKInfo          `json:"sdk,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	Breadcrumbs []Breadcrumb      `json:"breadcrumbs,omitempty"`
	Meta        map[string]any    `json:"meta,omitempty"`
}

// DeviceInfo describes the reporting device.
type DeviceInfo struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	OSName       string `json:"os_name,omitempty"`
	OSVersion    string `json:"os_version,omitempty"`
	Locale       string `json:"locale,omitempty"`
}

// AppInfo describes the reporting application build.
type AppInfo struct {
	VersionName string     `json:"version_name,omitempty"`
	VersionCode FlexString `json:"version_code,omitempty"`
	BuildType   string     `json:"build_type,omitempty"`
	PackageName string     `json:"package_name,omitempty"`
}

// SDKInfo describes the client SDK that produced the event.
type SDKInfo struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// Breadcrumb is a lightweight timeline entry preceding an event.
type Breadcrumb struct {
	Timestamp string         `json:"ts,omitempty"`
	Category  string         `json:"category,omitempty"`
	Message   string         `json:"message,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// FlexString decodes from either a JSON string or a JSON number. Clients
// disagree on whether version codes are numeric; the canonical internal
// representation is a string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		*s = FlexString(value)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(number.String())
	return nil
}

// FromInt builds a FlexString from an integer version code.
func FromInt(value int64) FlexString {
	return FlexString(strconv.FormatInt(value, 10))
}

// Repository persists events. The only lifecycle transitions are
// absent -> persisted -> returned in a query; there is no update or delete.
type Repository interface {
	Insert(ctx context.Context, payload Payload) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filters Filters, pagination Pagination) ([]Event, error)
}
