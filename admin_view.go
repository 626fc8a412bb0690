package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lab-inventory/inventory"
)

// runAdminView is the approver dashboard: pending queue, returns, inventory
// CRUD, low-stock report and the audit log. Overdue requests are swept on
// entry and on every refresh.
func runAdminView(sc *bufio.Scanner, mgr *inventory.Manager, auth *inventory.Authenticator, admin *inventory.User) error {
	sweepAndGreet(mgr, admin)
	fmt.Println("Available commands:")
	fmt.Println("  Requests:  pending, approve, reject, borrowed, return")
	fmt.Println("  Inventory: components, add component, edit component, delete component, low stock")
	fmt.Println("  Reports:   stats, audit, students")
	fmt.Println("  System:    refresh, logout, exit")

	for {
		fmt.Print("\n> ")
		if !sc.Scan() {
			return nil
		}
		cmd := strings.TrimSpace(sc.Text())

		switch cmd {
		case "pending":
			handleListRequests(mgr, inventory.StatusPending)
		case "approve":
			handleApprove(sc, mgr, admin)
		case "reject":
			handleReject(sc, mgr)
		case "borrowed":
			handleListRequests(mgr, inventory.StatusApproved, inventory.StatusOverdue)
		case "return":
			handleReturn(sc, mgr)
		case "components":
			handleListComponents(mgr, true)
		case "add component":
			handleAddComponent(sc, mgr)
		case "edit component":
			handleEditComponent(sc, mgr)
		case "delete component":
			handleDeleteComponent(sc, mgr)
		case "low stock":
			handleLowStock(mgr)
		case "stats":
			handleStats(mgr)
		case "audit":
			handleAudit(mgr)
		case "students":
			handleStudents(mgr)
		case "refresh":
			sweepAndGreet(mgr, admin)
		case "logout":
			if err := auth.Logout(); err != nil {
				notifyError("%v", err)
				continue
			}
			notifyInfo("Logged out")
			return nil
		case "exit":
			return nil
		default:
			fmt.Println("Unknown command. Type 'refresh' to see the dashboard again.")
		}
	}
}

func sweepAndGreet(mgr *inventory.Manager, admin *inventory.User) {
	if flipped, err := mgr.SweepOverdue(time.Now()); err != nil {
		notifyError("overdue sweep: %v", err)
	} else if flipped > 0 {
		notifyInfo("%d request(s) are now overdue", flipped)
	}

	st, err := mgr.Stats()
	if err != nil {
		notifyError("%v", err)
		return
	}
	fmt.Printf("Welcome, %s!\n", admin.Name)
	fmt.Printf("Inventory: %d units total, %d available, %d borrowed | %d pending request(s) | %d student(s)\n",
		st.TotalUnits, st.AvailableUnits, st.BorrowedUnits, st.PendingRequests, st.Students)
}

func handleListRequests(mgr *inventory.Manager, statuses ...string) {
	requests, err := mgr.Requests()
	if err != nil {
		notifyError("%v", err)
		return
	}

	wanted := func(status string) bool {
		for _, s := range statuses {
			if s == status {
				return true
			}
		}
		return false
	}

	count := 0
	fmt.Printf("%-22s %-16s %-10s %-28s %-5s %-10s %-12s\n", "ID", "Student", "Roll No", "Component", "Qty", "Status", "Due")
	fmt.Println(strings.Repeat("-", 110))
	for _, r := range requests {
		if !wanted(r.Status) {
			continue
		}
		count++
		fmt.Printf("%-22s %-16s %-10s %-28s %-5d %-10s %-12s\n",
			truncateString(r.ID, 22),
			truncateString(r.StudentName, 16),
			truncateString(r.RollNo, 10),
			truncateString(r.ComponentName, 28),
			r.Quantity,
			r.Status,
			r.DueDate.Format("2006-01-02"))
	}
	if count == 0 {
		fmt.Printf("No %s requests.\n", strings.Join(statuses, "/"))
	}
}

func handleApprove(sc *bufio.Scanner, mgr *inventory.Manager, admin *inventory.User) {
	fmt.Print("Request ID: ")
	if !sc.Scan() {
		return
	}
	id := strings.TrimSpace(sc.Text())

	if err := mgr.ApproveRequest(id, admin); err != nil {
		notifyError("%v", err)
		return
	}
	notifySuccess("Request approved")
}

func handleReject(sc *bufio.Scanner, mgr *inventory.Manager) {
	fmt.Print("Request ID: ")
	if !sc.Scan() {
		return
	}
	id := strings.TrimSpace(sc.Text())

	if err := mgr.RejectRequest(id); err != nil {
		notifyError("%v", err)
		return
	}
	notifyInfo("Request rejected")
}

func handleReturn(sc *bufio.Scanner, mgr *inventory.Manager) {
	fmt.Print("Request ID: ")
	if !sc.Scan() {
		return
	}
	id := strings.TrimSpace(sc.Text())

	if err := mgr.ReturnRequest(id); err != nil {
		notifyError("%v", err)
		return
	}
	notifySuccess("Component returned")
}

func promptComponentForm(sc *bufio.Scanner, base inventory.Component) (inventory.Component, bool) {
	prompt := func(label, current string) (string, bool) {
		if current != "" {
			fmt.Printf("%s [%s]: ", label, current)
		} else {
			fmt.Printf("%s: ", label)
		}
		if !sc.Scan() {
			return "", false
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			return current, true
		}
		return text, true
	}

	var ok bool
	if base.Name, ok = prompt("Name", base.Name); !ok {
		return base, false
	}
	if base.Category, ok = prompt("Category", base.Category); !ok {
		return base, false
	}
	if base.Description, ok = prompt("Description", base.Description); !ok {
		return base, false
	}

	number := func(label string, current int) (int, bool) {
		text, ok := prompt(label, strconv.Itoa(current))
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			notifyError("%s must be a number", label)
			return 0, false
		}
		return n, true
	}
	if base.Available, ok = number("Available", base.Available); !ok {
		return base, false
	}
	if base.Total, ok = number("Total", base.Total); !ok {
		return base, false
	}
	if base.Location, ok = prompt("Location", base.Location); !ok {
		return base, false
	}
	return base, true
}

func handleAddComponent(sc *bufio.Scanner, mgr *inventory.Manager) {
	form, ok := promptComponentForm(sc, inventory.Component{})
	if !ok {
		return
	}
	added, err := mgr.AddComponent(form)
	if err != nil {
		notifyError("%v", err)
		return
	}
	notifySuccess("Component %s added with ID %s", added.Name, added.ID)
}

func handleEditComponent(sc *bufio.Scanner, mgr *inventory.Manager) {
	fmt.Print("Component ID: ")
	if !sc.Scan() {
		return
	}
	id := strings.TrimSpace(sc.Text())

	components, err := mgr.Components()
	if err != nil {
		notifyError("%v", err)
		return
	}
	var current *inventory.Component
	for i := range components {
		if components[i].ID == id {
			current = &components[i]
			break
		}
	}
	if current == nil {
		notifyError("Component %s not found", id)
		return
	}

	form, ok := promptComponentForm(sc, *current)
	if !ok {
		return
	}
	if err := mgr.UpdateComponent(form); err != nil {
		notifyError("%v", err)
		return
	}
	notifySuccess("Component updated")
}

func handleDeleteComponent(sc *bufio.Scanner, mgr *inventory.Manager) {
	fmt.Print("Component ID: ")
	if !sc.Scan() {
		return
	}
	id := strings.TrimSpace(sc.Text())

	if err := mgr.DeleteComponent(id); err != nil {
		notifyError("%v", err)
		return
	}
	notifySuccess("Component deleted")
}

func handleLowStock(mgr *inventory.Manager) {
	low, err := mgr.LowStock()
	if err != nil {
		notifyError("%v", err)
		return
	}
	if len(low) == 0 {
		fmt.Println("No components are low on stock.")
		return
	}
	for _, c := range low {
		fmt.Printf("%-28s %d/%d remaining (%s)\n", truncateString(c.Name, 28), c.Available, c.Total, c.Location)
	}
}

func handleStats(mgr *inventory.Manager) {
	st, err := mgr.Stats()
	if err != nil {
		notifyError("%v", err)
		return
	}
	fmt.Printf("Total units:      %d\n", st.TotalUnits)
	fmt.Printf("Available units:  %d\n", st.AvailableUnits)
	fmt.Printf("Borrowed units:   %d\n", st.BorrowedUnits)
	fmt.Printf("Pending requests: %d\n", st.PendingRequests)
	fmt.Printf("Students:         %d\n", st.Students)
}

func handleAudit(mgr *inventory.Manager) {
	transactions, err := mgr.Transactions()
	if err != nil {
		notifyError("%v", err)
		return
	}
	if len(transactions) == 0 {
		fmt.Println("No transactions recorded.")
		return
	}

	fmt.Printf("%-17s %-8s %-16s %-28s %-5s %s\n", "Time", "Type", "Student", "Component", "Qty", "Notes")
	fmt.Println(strings.Repeat("-", 100))
	for _, txn := range transactions {
		fmt.Printf("%-17s %-8s %-16s %-28s %-5d %s\n",
			txn.Timestamp.Format("2006-01-02 15:04"),
			txn.Type,
			truncateString(txn.StudentName, 16),
			truncateString(txn.ComponentName, 28),
			txn.Quantity,
			txn.Notes)
	}
}

func handleStudents(mgr *inventory.Manager) {
	students, err := mgr.Students()
	if err != nil {
		notifyError("%v", err)
		return
	}
	if len(students) == 0 {
		fmt.Println("No students registered yet.")
		return
	}

	fmt.Printf("%-16s %-28s %-10s %-12s %-17s\n", "Name", "Email", "Roll No", "Mobile", "Last Login")
	fmt.Println(strings.Repeat("-", 90))
	for _, s := range students {
		fmt.Printf("%-16s %-28s %-10s %-12s %-17s\n",
			truncateString(s.Name, 16),
			truncateString(s.Email, 28),
			s.RollNo,
			s.Mobile,
			s.LastLogin.Format("2006-01-02 15:04"))
	}
}
