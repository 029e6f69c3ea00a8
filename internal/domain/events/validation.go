package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultLevel     = "error"
	DefaultEventType = "crash"

	// DefaultSDKName matches the client SDK's self-reported default.
	DefaultSDKName = "crash-monitor-sdk"
)

var validate = validator.New()

// ValidationError describes a single rejected field. Events that fail
// validation are never persisted, not even partially.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks a decoded payload and returns its normalized form. It is a
// pure transformation: identity and created_at are assigned later, by the
// storage layer.
func Validate(input Payload) (Payload, error) {
	normalized := input
	normalized.AppID = strings.TrimSpace(input.AppID)
	normalized.Message = strings.TrimSpace(input.Message)

	if err := validate.Struct(normalized); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return Payload{}, ValidationError{
				Field:   jsonFieldName(fieldErrors[0].StructField()),
				Message: "must be a non-empty string",
			}
		}
		return Payload{}, ValidationError{Message: err.Error()}
	}

	if strings.TrimSpace(normalized.Level) == "" {
		normalized.Level = DefaultLevel
	}
	if strings.TrimSpace(normalized.EventType) == "" {
		normalized.EventType = DefaultEventType
	}
	if normalized.SDK != nil && strings.TrimSpace(normalized.SDK.Name) == "" {
		sdk := *normalized.SDK
		sdk.Name = DefaultSDKName
		normalized.SDK = &sdk
	}

	return normalized, nil
}

func jsonFieldName(structField string) string {
	switch structField {
	case "AppID":
		return "app_id"
	case "Message":
		return "message"
	default:
		return strings.ToLower(structField)
	}
}
