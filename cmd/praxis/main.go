// Package main is a terminal client for the office-management auth core. It
// exercises the full credential lifecycle against a running backend (real or
// cmd/mockapi): login with automatic context resolution, explicit context
// commits, session rehydration across invocations via the credential file,
// and transparent access-token renewal on expiry.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"praxis/internal/credentials"
	"praxis/internal/gate"
	"praxis/internal/gateway"
	"praxis/internal/lifecycle"
	"praxis/internal/platform/config"
	"praxis/internal/platform/logger"
	"praxis/internal/platform/metrics"
	"praxis/internal/platform/tracer"
	"praxis/internal/resolver"
	"praxis/internal/session"
)

// terminalNavigator prints where a UI shell would route. The lifecycle layer
// only signals destinations; rendering is the caller's concern.
type terminalNavigator struct{}

func (terminalNavigator) ToLogin()     { fmt.Println("→ login screen") }
func (terminalNavigator) ToDashboard() { fmt.Println("→ dashboard") }
func (terminalNavigator) ToAdminArea() { fmt.Println("→ admin area") }

type app struct {
	cfg     config.Client
	service *lifecycle.Service
	gw      *gateway.Gateway
	state   *session.State
}

func newApp() *app {
	cfg := config.FromEnv()
	log := logger.New()

	creds := credentials.NewFileStore(cfg.CredentialsPath)
	state := session.New(creds)
	m := metrics.New()
	tr := tracer.NewOTel()

	gw := gateway.New(creds, cfg.BaseURL+"/auth/refresh",
		gateway.WithLogger(log),
		gateway.WithMetrics(m),
		gateway.WithTracer(tr),
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		gateway.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	)

	service := lifecycle.New(cfg.BaseURL, gw, creds, state, terminalNavigator{},
		lifecycle.WithLogger(log),
		lifecycle.WithMetrics(m),
		lifecycle.WithTracer(tr),
	)

	return &app{cfg: cfg, service: service, gw: gw, state: state}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	a := newApp()
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "set-context":
		err = a.setContext(ctx, os.Args[2:])
	case "whoami":
		err = a.whoami(ctx)
	case "offices":
		err = a.offices(ctx)
	case "ping":
		err = a.ping(ctx)
	case "logout":
		err = a.service.Logout(ctx)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: praxis <command> [flags]

commands:
  login        -email <email> -senha <password>
  set-context  -escritorio <id> -perfil <name> | -admin
  whoami       show the authenticated identity and memberships
  offices      refresh and list available offices
  ping         call a bearer-protected endpoint
  logout       revoke the session and clear stored credentials`)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	senha := fs.String("senha", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	decision, err := a.service.Login(ctx, *email, *senha)
	if err != nil {
		return err
	}
	a.report(decision)
	return nil
}

func (a *app) setContext(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-context", flag.ExitOnError)
	office := fs.Int64("escritorio", 0, "office id")
	profile := fs.String("perfil", "", "profile name")
	admin := fs.Bool("admin", false, "enter administrative mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Each invocation is a fresh process; restore identity from stored
	// credentials before committing.
	if _, err := a.service.Rehydrate(ctx); err != nil {
		return err
	}

	if *admin {
		return a.service.CommitContext(ctx, nil, nil)
	}
	return a.service.CommitContext(ctx, office, profile)
}

func (a *app) whoami(ctx context.Context) error {
	decision, err := a.service.Rehydrate(ctx)
	if err != nil {
		return err
	}

	identity, ok := a.state.Identity()
	if !ok {
		// Prompt outcome: identity is parked until a context is committed.
		fmt.Println("authenticated, awaiting context selection")
	} else {
		fmt.Printf("%s <%s>\n", identity.Name, identity.Email)
		if operating, ok := a.state.Context(); ok {
			if operating.Administrative {
				fmt.Println("context: administrative")
			} else {
				fmt.Printf("context: escritorio %d as %s\n", operating.OfficeID, operating.Profile)
			}
		}
		if gate.New(a.state).CanEnterAdminArea() {
			fmt.Println("admin area: accessible")
		}
	}
	a.report(decision)
	return nil
}

func (a *app) offices(ctx context.Context) error {
	if _, err := a.service.Rehydrate(ctx); err != nil {
		return err
	}
	memberships, err := a.service.ReloadOffices(ctx)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		fmt.Printf("%d  %s (%s)  perfis: %v\n", m.OfficeID, m.TradeName, m.LegalName, m.Profiles)
	}
	return nil
}

func (a *app) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	resp, err := a.gw.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	fmt.Println(resp.Status)
	return nil
}

func (a *app) report(decision resolver.Decision) {
	if decision.Outcome == resolver.OutcomeAutoResolved {
		return
	}
	if decision.NoProfilesAvailable {
		fmt.Println("no profiles available in your office; contact an administrator")
		return
	}
	fmt.Println("choose a context with set-context:")
	for _, m := range a.service.AvailableMemberships() {
		marker := " "
		if decision.PreselectedOfficeID != nil && *decision.PreselectedOfficeID == m.OfficeID {
			marker = "*"
		}
		fmt.Printf("%s %d  %s  perfis: %v\n", marker, m.OfficeID, m.TradeName, m.Profiles)
	}
	if decision.SuggestedProfile != "" {
		fmt.Printf("suggested perfil: %s\n", decision.SuggestedProfile)
	}
}
