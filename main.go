package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"lab-inventory/inventory"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type app struct {
	store *inventory.Store
	mgr   *inventory.Manager
	auth  *inventory.Authenticator
}

func openApp() (*app, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	cfg, err := inventory.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := inventory.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &app{
		store: store,
		mgr:   inventory.NewManager(store),
		auth:  inventory.NewAuthenticator(store, cfg),
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:          "lab-inventory",
		Short:        "Robotics lab component inventory and borrow-request tracker",
		SilenceUsage: true,
		RunE:         runDashboard,
	}
	root.AddCommand(loginCmd(), logoutCmd(), whoamiCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runDashboard is the default command: it logs in if needed and drops into
// the role-specific interactive view.
func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.store.Close()

	sc := bufio.NewScanner(os.Stdin)

	user, err := a.auth.CurrentUser()
	if err != nil {
		return err
	}
	if user == nil {
		user, err = promptLogin(sc, a.auth)
		if err != nil {
			return err
		}
	}

	if user.Role == inventory.RoleAdmin {
		return runAdminView(sc, a.mgr, a.auth, user)
	}
	return runStudentView(sc, a.mgr, a.auth, user)
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.store.Close()

			user, err := promptLogin(bufio.NewScanner(os.Stdin), a.auth)
			if err != nil {
				return err
			}
			notifySuccess("Logged in as %s (%s)", user.Name, user.Role)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.store.Close()

			if err := a.auth.Logout(); err != nil {
				return err
			}
			notifyInfo("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.store.Close()

			user, err := a.auth.CurrentUser()
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("%s <%s> (%s), last login %s\n",
				user.Name, user.Email, user.Role, user.LastLogin.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

// promptLogin asks for the lab email and passphrase until a login succeeds
// or input runs out.
func promptLogin(sc *bufio.Scanner, auth *inventory.Authenticator) (*inventory.User, error) {
	for {
		fmt.Print("Email: ")
		if !sc.Scan() {
			return nil, fmt.Errorf("login aborted")
		}
		email := strings.TrimSpace(sc.Text())

		password, err := readPassword("Password: ")
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}

		user, err := auth.Login(email, password)
		if err != nil {
			notifyError("%v", err)
			continue
		}
		return user, nil
	}
}

// readPassword reads a passphrase with terminal echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}

// Transient notices. The UI contract only needs success/error/info signaling.
func notifySuccess(format string, args ...any) { fmt.Printf("[ok] "+format+"\n", args...) }
func notifyError(format string, args ...any)   { fmt.Printf("[error] "+format+"\n", args...) }
func notifyInfo(format string, args ...any)    { fmt.Printf("[info] "+format+"\n", args...) }

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
