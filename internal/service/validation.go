package service

import (
	"strings"
	"unicode/utf8"
)

const (
	maxTopicLen = 64
	maxBodyLen  = 4096
)

// Limits bounds the windows a client may request.
type Limits struct {
	Default int
	Max     int
}

// normalize clamps a requested window size: non-positive falls back to the
// default, anything above the max is capped.
func (l Limits) normalize(limit int) int {
	if limit <= 0 {
		return l.Default
	}
	if l.Max > 0 && limit > l.Max {
		return l.Max
	}
	return limit
}

func validateTopic(field, topic string, required bool) []FieldError {
	if topic == "" {
		if required {
			return []FieldError{{Field: field, Message: "must not be empty"}}
		}
		return nil
	}
	if utf8.RuneCountInString(topic) > maxTopicLen {
		return []FieldError{{Field: field, Message: "length must be at most 64"}}
	}
	if strings.ContainsAny(topic, " \t\n") {
		return []FieldError{{Field: field, Message: "must not contain whitespace"}}
	}
	return nil
}
