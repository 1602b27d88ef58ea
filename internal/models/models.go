package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EntityKind distinguishes the entity families sharing the tracking namespace.
type EntityKind string

const (
	KindOrder    EntityKind = "order"
	KindBooking  EntityKind = "booking"
	KindTraining EntityKind = "training"
)

// BookingStatus is the lifecycle status of a service booking.
type BookingStatus string

const (
	BookingPending          BookingStatus = "pending"
	BookingAwaitingApproval BookingStatus = "awaiting_approval"
	BookingConfirmed        BookingStatus = "confirmed"
	BookingReceived         BookingStatus = "received"
	BookingInProgress       BookingStatus = "in_progress"
	BookingCompleted        BookingStatus = "completed"
	BookingCancelled        BookingStatus = "cancelled"
	BookingRejected         BookingStatus = "rejected"
)

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingAwaitingApproval, BookingConfirmed, BookingReceived,
		BookingInProgress, BookingCompleted, BookingCancelled, BookingRejected:
		return true
	default:
		return false
	}
}

// TrainingStatus is the lifecycle status of a training enrollment.
type TrainingStatus string

const (
	TrainingEnrolled   TrainingStatus = "enrolled"
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingCompleted  TrainingStatus = "completed"
	TrainingCancelled  TrainingStatus = "cancelled"
)

func (s TrainingStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s TrainingStatus) IsValid() bool {
	switch s {
	case TrainingEnrolled, TrainingInProgress, TrainingCompleted, TrainingCancelled:
		return true
	default:
		return false
	}
}

// TrainingMode is how a course is delivered.
type TrainingMode string

const (
	ModeOnline   TrainingMode = "online"
	ModePhysical TrainingMode = "physical"
	ModeHybrid   TrainingMode = "hybrid"
)

// OrderStatus is the fulfilment status of a retail order. Order transitions
// are driven by the payments pipeline upstream; this service only reads them
// for tracking.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// DeliveryType is how a booked wig moves between customer and shop.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// Booking represents a wig service booking.
type Booking struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	BookingID          string         `db:"booking_id" json:"booking_id"`
	TrackingCode       string         `db:"tracking_code" json:"tracking_code"`
	CustomerID         *uuid.UUID     `db:"customer_id" json:"customer_id,omitempty"`
	CustomerName       string         `db:"customer_name" json:"customer_name"`
	CustomerEmail      string         `db:"customer_email" json:"customer_email"`
	CustomerPhone      string         `db:"customer_phone" json:"customer_phone"`
	TotalAmount        int64          `db:"total_amount" json:"total_amount"`
	ScheduledDate      time.Time      `db:"scheduled_date" json:"scheduled_date"`
	DeliveryType       DeliveryType   `db:"delivery_type" json:"delivery_type"`
	DeliveryAddress    string         `db:"delivery_address" json:"delivery_address,omitempty"`
	Status             BookingStatus  `db:"status" json:"status"`
	Notes              string         `db:"notes" json:"notes,omitempty"`
	Photos             pq.StringArray `db:"photos" json:"photos,omitempty"`
	AssignedTo         *uuid.UUID     `db:"assigned_to" json:"assigned_to,omitempty"`
	CompletedAt        *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	CancelledAt        *time.Time     `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason string         `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`

	Services []BookingService `db:"-" json:"services"`
}

// BookingService is a single service line on a booking. Price is a snapshot
// taken at booking time and is never recomputed from the catalog.
type BookingService struct {
	ID        int64     `db:"id" json:"id"`
	BookingID uuid.UUID `db:"booking_id" json:"booking_id"`
	ServiceID string    `db:"service_id" json:"service_id"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
}

// Training represents a training course enrollment.
type Training struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	StudentID          uuid.UUID      `db:"student_id" json:"student_id"`
	StudentName        string         `db:"student_name" json:"student_name"`
	StudentEmail       string         `db:"student_email" json:"student_email"`
	StudentPhone       string         `db:"student_phone" json:"student_phone"`
	CourseName         string         `db:"course_name" json:"course_name"`
	CourseSlug         string         `db:"course_slug" json:"course_slug"`
	Mode               TrainingMode   `db:"mode" json:"mode"`
	AmountPaid         int64          `db:"amount_paid" json:"amount_paid"`
	TotalAmount        int64          `db:"total_amount" json:"total_amount"`
	StartDate          time.Time      `db:"start_date" json:"start_date"`
	EndDate            *time.Time     `db:"end_date" json:"end_date,omitempty"`
	Status             TrainingStatus `db:"status" json:"status"`
	CertificateIssued  bool           `db:"certificate_issued" json:"certificate_issued"`
	CertificateURL     string         `db:"certificate_url" json:"certificate_url,omitempty"`
	Notes              string         `db:"notes" json:"notes,omitempty"`
	AssignedInstructor *uuid.UUID     `db:"assigned_instructor" json:"assigned_instructor,omitempty"`
	CompletedAt        *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	CancelledAt        *time.Time     `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason string         `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// Order represents a retail product order. Its status pipeline is owned by
// the payments flow upstream; this service creates it at intake and reads it
// for tracking.
type Order struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TrackingCode string      `db:"tracking_code" json:"tracking_code"`
	CustomerID   uuid.UUID   `db:"customer_id" json:"customer_id"`
	CustomerName string      `db:"customer_name" json:"customer_name"`
	TotalAmount  int64       `db:"total_amount" json:"total_amount"`
	Status       OrderStatus `db:"status" json:"status"`
	DeliveredAt  *time.Time  `db:"delivered_at" json:"delivered_at,omitempty"`
	CancelledAt  *time.Time  `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items"`
}

// OrderItem is a product line on an order, price snapshotted at checkout.
type OrderItem struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Price     int64     `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Image     string    `db:"image" json:"image,omitempty"`
}

// TimelineEntry is one customer-visible tracking event, derived purely from
// stored timestamps.
type TimelineEntry struct {
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}
