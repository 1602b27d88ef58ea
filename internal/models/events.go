package models

import "time"

// Event types
const (
	EventTypeBookingStatusChanged  = "BOOKING_STATUS_CHANGED"
	EventTypeTrainingStatusChanged = "TRAINING_STATUS_CHANGED"
	EventTypeCertificateIssued     = "CERTIFICATE_ISSUED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingStatusChangedEvent published after a booking transition commits
type BookingStatusChangedEvent struct {
	BaseEvent
	BookingID     string        `json:"booking_id"`
	TrackingCode  string        `json:"tracking_code"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	From          BookingStatus `json:"from"`
	To            BookingStatus `json:"to"`
	Reason        string        `json:"reason,omitempty"`
}

// TrainingStatusChangedEvent published after a training transition commits
type TrainingStatusChangedEvent struct {
	BaseEvent
	TrainingID   string         `json:"training_id"`
	StudentName  string         `json:"student_name"`
	StudentEmail string         `json:"student_email"`
	StudentPhone string         `json:"student_phone"`
	CourseName   string         `json:"course_name"`
	From         TrainingStatus `json:"from"`
	To           TrainingStatus `json:"to"`
	Reason       string         `json:"reason,omitempty"`
}

// CertificateIssuedEvent published when a certificate is issued or re-issued
type CertificateIssuedEvent struct {
	BaseEvent
	TrainingID     string `json:"training_id"`
	StudentName    string `json:"student_name"`
	StudentEmail   string `json:"student_email"`
	CourseName     string `json:"course_name"`
	CertificateURL string `json:"certificate_url"`
}
