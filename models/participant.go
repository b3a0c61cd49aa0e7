package models

import "time"

const (
	ParticipationAttending = "attending"
	ParticipationMaybe     = "maybe"
	ParticipationDeclined  = "declined"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// EventParticipant is a user's request to join an event. Approval and payment
// are tracked per request, independent of the user's own account approval.
type EventParticipant struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID       uint      `gorm:"column:event_id;not null;uniqueIndex:idx_event_user" json:"eventId"`
	UserID        uint      `gorm:"column:user_id;not null;uniqueIndex:idx_event_user" json:"userId"`
	Status        string    `gorm:"column:status;size:20;not null" json:"status"` // attending | maybe | declined
	IsApproved    bool      `gorm:"column:is_approved;not null;default:false" json:"isApproved"`
	RoomType      *string   `gorm:"column:room_type;size:20" json:"roomType"` // single | double | triple | quad
	RoomOccupancy *int      `gorm:"column:room_occupancy" json:"roomOccupancy"`
	PaymentStatus string    `gorm:"column:payment_status;size:20;default:'pending'" json:"paymentStatus"`
	OldValues     Snapshot  `gorm:"column:old_values;type:json" json:"oldValues"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (EventParticipant) TableName() string {
	return "event_participants"
}
