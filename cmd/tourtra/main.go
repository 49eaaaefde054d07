// Command tourtra is the terminal admin console for the TOURTRA back office.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"tourtra/internal/api"
	"tourtra/internal/config"
	"tourtra/internal/logging"
	"tourtra/internal/session"
)

var version = "dev"

type app struct {
	cfg     *config.Config
	log     *zap.Logger
	manager *session.Manager
}

var (
	flagConfig  string
	flagAPIURL  string
	flagVerbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tourtra",
		Short: "Terminal admin console for the TOURTRA back office",
		Long: `tourtra is a terminal front-end for the TOURTRA construction back
office. Running it with no arguments opens the interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConsole()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: user config dir)")
	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newLoginCmd(a), newLogoutCmd(a), newWhoamiCmd(a), newVersionCmd())
	return root
}

// setup wires config, logging and the session manager. Every subcommand runs
// through here so they all agree on where the session file lives.
func (a *app) setup() error {
	// A .env in the working directory is a convenience for development; a
	// missing one is the normal case.
	_ = godotenv.Load()

	path := flagConfig
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = log

	var opts []session.ManagerOption
	if cfg.SessionFile != "" {
		opts = append(opts, session.WithSessionFile(cfg.SessionFile))
	}
	opts = append(opts, session.WithLogger(log.Named("session")))
	manager, err := session.NewManager(cfg.APIURL, opts...)
	if err != nil {
		return err
	}
	a.manager = manager
	return nil
}

func (a *app) transport() *api.Client {
	return api.New(a.cfg.APIURL, a.manager,
		api.WithRefresher(a.manager),
		api.WithLogger(a.log.Named("api")),
	)
}

func (a *app) runConsole() error {
	a.log.Info("console starting", zap.String("version", version), zap.String("api_url", a.cfg.APIURL))
	model := newConsoleModel(a.cfg, a.manager, a.transport(), a.log)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := promptCredentials(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			sess, err := a.manager.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if sess.User != nil {
				cmd.Printf("Signed in as %s (%s)\n", sess.User.FullName, sess.User.Role)
			} else {
				cmd.Println("Signed in")
			}
			return nil
		},
	}
}

func promptCredentials(cmd *cobra.Command) (string, string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Email: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	email = strings.TrimSpace(email)

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", "", err
		}
		return email, string(raw), nil
	}
	// Piped stdin (tests, scripts).
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	return email, strings.TrimRight(password, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.manager.Logout()
			cmd.Println("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the persisted identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.manager.Snapshot()
			if sess.User == nil {
				cmd.Println("Not signed in")
				return nil
			}
			cmd.Printf("%s <%s>\n", sess.User.FullName, sess.User.Email)
			cmd.Printf("Role:    %s\n", sess.User.Role)
			if sess.User.CompanyName != "" {
				cmd.Printf("Company: %s\n", sess.User.CompanyName)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("tourtra", version)
		},
	}
}
