package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInsufficientStock is returned when a submit or approve asks for
	// more units than the component currently has available.
	ErrInsufficientStock = errors.New("insufficient component availability")

	// ErrInvalidQuantities is returned for component writes that would
	// break 0 <= available <= total.
	ErrInvalidQuantities = errors.New("available must be between 0 and total")
)

// Admin note literals stamped onto requests by the lifecycle operations.
const (
	approvedNote = "Come and get in Robotics lab"
	rejectedNote = "Request rejected by administrator"
)

// Manager is a thin facade over the Store that owns the borrow-request
// state machine and the paired inventory bookkeeping:
//
//	submit -> pending --approve--> approved --return--> returned
//	                 \--reject---> rejected
//
// Available is decremented only on approve and incremented only on return.
// Transitions are not otherwise validated; in particular, returning an
// already-returned request increments availability again (clamped at total).
type Manager struct {
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// Store exposes the underlying store for read-heavy callers like the views.
func (m *Manager) Store() *Store { return m.store }

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// SubmitRequest creates a pending borrow request for the given student.
// Availability is checked but NOT decremented here; units are consumed only
// when an admin approves. Roll number and mobile, when supplied, are
// backfilled onto the student's user record if not already set.
func (m *Manager) SubmitRequest(student *User, componentID string, quantity int, rollNo, mobile string, dueDate time.Time) (*BorrowRequest, error) {
	component, err := m.findComponent(componentID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", ErrInvalidQuantities)
	}
	if quantity > component.Available {
		return nil, fmt.Errorf("only %d units available: %w", component.Available, ErrInsufficientStock)
	}

	request := BorrowRequest{
		ID:            newID("req"),
		StudentID:     student.ID,
		StudentName:   student.Name,
		RollNo:        rollNo,
		Mobile:        mobile,
		ComponentID:   component.ID,
		ComponentName: component.Name,
		Quantity:      quantity,
		RequestDate:   time.Now(),
		DueDate:       dueDate,
		Status:        StatusPending,
		AdminNotes:    "",
	}
	if err := m.store.AddRequest(request); err != nil {
		return nil, err
	}

	m.backfillContact(student, rollNo, mobile)
	return &request, nil
}

// backfillContact copies roll number and mobile onto the user record when
// supplied and currently absent. Best effort: failures are ignored.
func (m *Manager) backfillContact(student *User, rollNo, mobile string) {
	changed := false
	if rollNo != "" && student.RollNo == "" {
		student.RollNo = rollNo
		changed = true
	}
	if mobile != "" && student.Mobile == "" {
		student.Mobile = mobile
		changed = true
	}
	if changed {
		_ = m.store.UpdateUser(*student)
	}
}

// ApproveRequest marks the request approved, stamps the approval metadata,
// and decrements the component's availability. Availability is re-checked
// here: two pending requests can both pass submission-time checks against
// the same stock, and only the first approval wins.
func (m *Manager) ApproveRequest(requestID string, approver *User) error {
	request, err := m.findRequest(requestID)
	if err != nil {
		return err
	}
	component, err := m.findComponent(request.ComponentID)
	if err != nil {
		return err
	}
	if component.Available < request.Quantity {
		return fmt.Errorf("only %d units available: %w", component.Available, ErrInsufficientStock)
	}

	request.Status = StatusApproved
	request.ApprovedDate = time.Now()
	request.ApprovedBy = approver.Name
	request.AdminNotes = approvedNote
	if err := m.store.UpdateRequest(*request); err != nil {
		return err
	}

	component.Available -= request.Quantity
	if err := m.store.UpdateComponent(*component); err != nil {
		return err
	}

	return m.store.AddTransaction(Transaction{
		ID:            newID("txn"),
		Type:          TransactionBorrow,
		StudentID:     request.StudentID,
		StudentName:   request.StudentName,
		ComponentID:   component.ID,
		ComponentName: component.Name,
		Quantity:      request.Quantity,
		Timestamp:     time.Now(),
		Notes:         "approved by " + approver.Name,
	})
}

// RejectRequest marks the request rejected. Component quantities are left
// untouched, consistent with approve being the only decrement point.
func (m *Manager) RejectRequest(requestID string) error {
	request, err := m.findRequest(requestID)
	if err != nil {
		return err
	}
	request.Status = StatusRejected
	request.AdminNotes = rejectedNote
	return m.store.UpdateRequest(*request)
}

// ReturnRequest marks the request returned and gives the units back,
// clamping availability at the component's total so a stray return cannot
// push the count past capacity.
func (m *Manager) ReturnRequest(requestID string) error {
	request, err := m.findRequest(requestID)
	if err != nil {
		return err
	}
	component, err := m.findComponent(request.ComponentID)
	if err != nil {
		return err
	}

	request.Status = StatusReturned
	request.ReturnedDate = time.Now()
	if err := m.store.UpdateRequest(*request); err != nil {
		return err
	}

	component.Available += request.Quantity
	if component.Available > component.Total {
		component.Available = component.Total
	}
	if err := m.store.UpdateComponent(*component); err != nil {
		return err
	}

	return m.store.AddTransaction(Transaction{
		ID:            newID("txn"),
		Type:          TransactionReturn,
		StudentID:     request.StudentID,
		StudentName:   request.StudentName,
		ComponentID:   component.ID,
		ComponentName: component.Name,
		Quantity:      request.Quantity,
		Timestamp:     time.Now(),
	})
}

// SweepOverdue flips approved requests whose due date has passed to overdue
// and reports how many it touched. There is no background timer; the admin
// view runs this on refresh.
func (m *Manager) SweepOverdue(now time.Time) (int, error) {
	requests, err := m.store.GetRequests()
	if err != nil {
		return 0, err
	}
	flipped := 0
	for _, r := range requests {
		if r.Status == StatusApproved && !r.DueDate.IsZero() && r.DueDate.Before(now) {
			r.Status = StatusOverdue
			if err := m.store.UpdateRequest(r); err != nil {
				return flipped, err
			}
			flipped++
		}
	}
	return flipped, nil
}

// ---------------------------------------------------------------------------
// Component administration
// ---------------------------------------------------------------------------

// AddComponent registers a new component. Name and category are required;
// quantities must satisfy 0 <= available <= total.
func (m *Manager) AddComponent(c Component) (*Component, error) {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Category) == "" {
		return nil, errors.New("name and category are required")
	}
	if err := validateQuantities(c); err != nil {
		return nil, err
	}
	c.ID = newID("comp")
	if err := m.store.AddComponent(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateComponent replaces the stored component, rejecting writes that
// would break the quantity invariant.
func (m *Manager) UpdateComponent(c Component) error {
	if err := validateQuantities(c); err != nil {
		return err
	}
	return m.store.UpdateComponent(c)
}

func (m *Manager) DeleteComponent(id string) error {
	return m.store.DeleteComponent(id)
}

func validateQuantities(c Component) error {
	if c.Available < 0 || c.Total < 0 || c.Available > c.Total {
		return fmt.Errorf("available=%d total=%d: %w", c.Available, c.Total, ErrInvalidQuantities)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read helpers for the views
// ---------------------------------------------------------------------------

func (m *Manager) Components() ([]Component, error)     { return m.store.GetComponents() }
func (m *Manager) Requests() ([]BorrowRequest, error)   { return m.store.GetRequests() }
func (m *Manager) Transactions() ([]Transaction, error) { return m.store.GetTransactions() }

// RequestsForStudent returns the given student's requests in submission order.
func (m *Manager) RequestsForStudent(studentID string) ([]BorrowRequest, error) {
	requests, err := m.store.GetRequests()
	if err != nil {
		return nil, err
	}
	var mine []BorrowRequest
	for _, r := range requests {
		if r.StudentID == studentID {
			mine = append(mine, r)
		}
	}
	return mine, nil
}

// Students returns all users with the student role.
func (m *Manager) Students() ([]User, error) {
	users, err := m.store.GetUsers()
	if err != nil {
		return nil, err
	}
	var students []User
	for _, u := range users {
		if u.Role == RoleStudent {
			students = append(students, u)
		}
	}
	return students, nil
}

// LowStock lists components with less than 20% of their total available.
func (m *Manager) LowStock() ([]Component, error) {
	components, err := m.store.GetComponents()
	if err != nil {
		return nil, err
	}
	var low []Component
	for _, c := range components {
		if c.Total > 0 && c.Available*5 < c.Total {
			low = append(low, c)
		}
	}
	return low, nil
}

// Stats summarizes the inventory for the admin view header.
type Stats struct {
	TotalUnits      int
	AvailableUnits  int
	BorrowedUnits   int
	PendingRequests int
	Students        int
}

func (m *Manager) Stats() (Stats, error) {
	var st Stats
	components, err := m.store.GetComponents()
	if err != nil {
		return st, err
	}
	for _, c := range components {
		st.TotalUnits += c.Total
		st.AvailableUnits += c.Available
	}
	st.BorrowedUnits = st.TotalUnits - st.AvailableUnits

	requests, err := m.store.GetRequests()
	if err != nil {
		return st, err
	}
	for _, r := range requests {
		if r.Status == StatusPending {
			st.PendingRequests++
		}
	}

	students, err := m.Students()
	if err != nil {
		return st, err
	}
	st.Students = len(students)
	return st, nil
}

// findRequest returns a copy of the stored request, or ErrNotFound.
func (m *Manager) findRequest(id string) (*BorrowRequest, error) {
	requests, err := m.store.GetRequests()
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == id {
			r := requests[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("request %q: %w", id, ErrNotFound)
}

// findComponent returns a copy of the stored component, or ErrNotFound.
func (m *Manager) findComponent(id string) (*Component, error) {
	components, err := m.store.GetComponents()
	if err != nil {
		return nil, err
	}
	for i := range components {
		if components[i].ID == id {
			c := components[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("component %q: %w", id, ErrNotFound)
}
