package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lab-inventory/inventory"
)

// runStudentView is the requester dashboard: browse components, submit a
// borrow request, track your own requests.
func runStudentView(sc *bufio.Scanner, mgr *inventory.Manager, auth *inventory.Authenticator, user *inventory.User) error {
	fmt.Printf("Welcome, %s!\n", user.Name)
	fmt.Println("Available commands: components, request, status, logout, exit")

	for {
		fmt.Print("\n> ")
		if !sc.Scan() {
			return nil
		}
		cmd := strings.TrimSpace(sc.Text())

		switch cmd {
		case "components":
			handleListComponents(mgr, false)
		case "request":
			handleSubmitRequest(sc, mgr, user)
		case "status":
			handleMyRequests(mgr, user)
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
			fmt.Println("Unknown command. Type one of: components, request, status, logout, exit")
		}
	}
}

// handleListComponents prints the inventory. Students only see components
// with units available; the admin view shows everything.
func handleListComponents(mgr *inventory.Manager, adminView bool) {
	components, err := mgr.Components()
	if err != nil {
		notifyError("%v", err)
		return
	}
	if len(components) == 0 {
		fmt.Println("No components in inventory.")
		return
	}

	fmt.Printf("%-22s %-28s %-22s %-11s %-8s %s\n", "ID", "Name", "Category", "Available", "Total", "Location")
	fmt.Println(strings.Repeat("-", 110))
	for _, c := range components {
		if !adminView && c.Available == 0 {
			continue
		}
		fmt.Printf("%-22s %-28s %-22s %-11d %-8d %s\n",
			truncateString(c.ID, 22),
			truncateString(c.Name, 28),
			truncateString(c.Category, 22),
			c.Available,
			c.Total,
			c.Location)
	}
}

func handleSubmitRequest(sc *bufio.Scanner, mgr *inventory.Manager, user *inventory.User) {
	handleListComponents(mgr, false)

	fmt.Print("Component ID: ")
	if !sc.Scan() {
		return
	}
	componentID := strings.TrimSpace(sc.Text())

	fmt.Print("Quantity: ")
	if !sc.Scan() {
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || quantity <= 0 {
		notifyError("Quantity must be a positive number")
		return
	}

	rollNo := user.RollNo
	if rollNo == "" {
		fmt.Print("Roll number (optional): ")
		if !sc.Scan() {
			return
		}
		rollNo = strings.TrimSpace(sc.Text())
	}

	mobile := user.Mobile
	if mobile == "" {
		fmt.Print("Mobile (optional): ")
		if !sc.Scan() {
			return
		}
		mobile = strings.TrimSpace(sc.Text())
	}

	fmt.Print("Due date (YYYY-MM-DD): ")
	if !sc.Scan() {
		return
	}
	dueDate, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(sc.Text()), time.Local)
	if err != nil {
		notifyError("Invalid due date: %v", err)
		return
	}

	if _, err := mgr.SubmitRequest(user, componentID, quantity, rollNo, mobile, dueDate); err != nil {
		notifyError("%v", err)
		return
	}
	notifySuccess("Request submitted successfully! Admin will review shortly.")
}

func handleMyRequests(mgr *inventory.Manager, user *inventory.User) {
	requests, err := mgr.RequestsForStudent(user.ID)
	if err != nil {
		notifyError("%v", err)
		return
	}
	if len(requests) == 0 {
		fmt.Println("No requests yet.")
		return
	}

	fmt.Printf("%-28s %-5s %-10s %-12s %-12s %s\n", "Component", "Qty", "Status", "Requested", "Due", "Admin Notes")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range requests {
		notes := ""
		if r.Status == inventory.StatusApproved || r.Status == inventory.StatusRejected {
			notes = r.AdminNotes
		}
		fmt.Printf("%-28s %-5d %-10s %-12s %-12s %s\n",
			truncateString(r.ComponentName, 28),
			r.Quantity,
			r.Status,
			r.RequestDate.Format("2006-01-02"),
			r.DueDate.Format("2006-01-02"),
			notes)
	}
}
