package inventory

import (
	"fmt"
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Request lifecycle states. Nothing transitions to StatusOverdue on its own;
// the admin view runs SweepOverdue explicitly.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

const (
	TransactionBorrow = "borrow"
	TransactionReturn = "return"
)

// User is a lab member. Email is the login key; students are provisioned
// lazily on first login, the admin is pre-seeded.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RollNo     string    `json:"roll_no,omitempty"`
	Mobile     string    `json:"mobile,omitempty"`
	Role       string    `json:"role"`
	LastLogin  time.Time `json:"last_login"`
	JoinedDate time.Time `json:"joined_date"`
}

// Component is a physical lab item with a tracked quantity.
// Invariant at rest: 0 <= Available <= Total.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Available   int    `json:"available"`
	Total       int    `json:"total"`
	Location    string `json:"location,omitempty"`
}

// BorrowRequest tracks a student's ask for a quantity of a component.
// Student and component display fields are denormalized snapshots taken at
// submission time.
type BorrowRequest struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	RollNo        string    `json:"roll_no"`
	Mobile        string    `json:"mobile"`
	ComponentID   string    `json:"component_id"`
	ComponentName string    `json:"component_name"`
	Quantity      int       `json:"quantity"`
	RequestDate   time.Time `json:"request_date"`
	DueDate       time.Time `json:"due_date"`
	Status        string    `json:"status"`
	ApprovedDate  time.Time `json:"approved_date,omitempty"`
	ReturnedDate  time.Time `json:"returned_date,omitempty"`
	AdminNotes    string    `json:"admin_notes"`
	ApprovedBy    string    `json:"approved_by,omitempty"`
}

// Transaction is an audit record appended on every approve and return.
type Transaction struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"` // "borrow" or "return"
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	ComponentID   string    `json:"component_id"`
	ComponentName string    `json:"component_name"`
	Quantity      int       `json:"quantity"`
	Timestamp     time.Time `json:"timestamp"`
	Notes         string    `json:"notes,omitempty"`
}

// newID derives an entity ID from the current time, like the rest of the
// system's IDs (student_..., req_..., comp_...). Nanosecond resolution keeps
// IDs minted in quick succession distinct.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
