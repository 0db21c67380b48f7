package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"spotmap/pkg/e"
)

type AlertType string

const (
	AlertTraffic AlertType = "traffic"
	AlertWeather AlertType = "weather"
	AlertSafety  AlertType = "safety"
	AlertEvent   AlertType = "event"
	AlertOther   AlertType = "other"
)

// AlertTypes lists every alert type in a stable order.
var AlertTypes = []AlertType{AlertTraffic, AlertWeather, AlertSafety, AlertEvent, AlertOther}

// ParseAlertType maps "" to AlertOther and rejects anything outside the enum.
func ParseAlertType(s string) (AlertType, error) {
	switch t := AlertType(s); t {
	case "":
		return AlertOther, nil
	case AlertTraffic, AlertWeather, AlertSafety, AlertEvent, AlertOther:
		return t, nil
	default:
		return "", e.Validation(fmt.Sprintf("unknown alert type %q", s))
	}
}

const (
	MinSeverity = 1
	MaxSeverity = 5
)

type Alert struct {
	ID        uuid.UUID `json:"id"`
	SpotID    uuid.UUID `json:"spotId"`
	AlertType AlertType `json:"alertType"`
	Severity  int       `json:"severity"`
	Metadata  Metadata  `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertDraft is an alert before validation and defaulting.
type AlertDraft struct {
	SpotID    uuid.UUID
	AlertType string
	Severity  int
	Metadata  Metadata
	Timestamp time.Time
}

// NewAlert validates d and fills defaults: id, type "other", empty metadata, timestamp now.
func NewAlert(d AlertDraft, now time.Time) (*Alert, error) {
	if d.SpotID == uuid.Nil {
		return nil, e.Validation("spotId is required")
	}
	if d.Severity < MinSeverity || d.Severity > MaxSeverity {
		return nil, e.Validation(fmt.Sprintf("severity %d out of [%d,%d]", d.Severity, MinSeverity, MaxSeverity))
	}
	typ, err := ParseAlertType(d.AlertType)
	if err != nil {
		return nil, err
	}
	md := d.Metadata
	if md == nil {
		md = Metadata{}
	}
	if err := md.validate(); err != nil {
		return nil, err
	}
	ts := d.Timestamp
	if ts.IsZero() {
		ts = now
	}

	return &Alert{
		ID:        uuid.New(),
		SpotID:    d.SpotID,
		AlertType: typ,
		Severity:  d.Severity,
		Metadata:  md,
		Timestamp: ts.UTC(),
	}, nil
}

// AlertTypeCount is one row of the per-type breakdown.
type AlertTypeCount struct {
	AlertType AlertType `json:"alertType"`
	Count     int64     `json:"count"`
}
