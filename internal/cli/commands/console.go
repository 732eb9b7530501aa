package commands

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/model-cloud/mcloud/internal/api"
	"github.com/model-cloud/mcloud/internal/nav"
	"github.com/model-cloud/mcloud/internal/stats"
)

// NewConsoleCmd creates the console command
func NewConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Browse the catalog interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context())
		},
	}
}

// consoleEntry is one selectable destination in the console menu.
type consoleEntry struct {
	label string
	path  string
}

func consoleMenu() []consoleEntry {
	return []consoleEntry{
		{label: "Home", path: nav.PathHome},
		{label: "Model List", path: "/dashboard/model/list"},
		{label: "Model Detail", path: "/dashboard/model/detail/:id"},
		{label: "My Favorites", path: "/dashboard/model/collects"},
		{label: "User Management", path: "/dashboard/system/user"},
		{label: "My Profile", path: "/dashboard/system/profile"},
		{label: "Login", path: nav.PathLogin},
		{label: "Quit", path: ""},
	}
}

// runConsole drives the guarded view loop: every menu selection goes
// through the router, which may land somewhere else than requested.
func runConsole(ctx context.Context) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}

	// First landing: home, or login when there is no session yet.
	res := env.Router.Navigate(nav.PathHome)
	for {
		if err := renderView(ctx, env, res); err != nil {
			if api.IsAuthExpired(err) {
				// The client already cleared the session and moved
				// navigation back to login.
				res = env.Router.Navigate(env.Router.Current())
				continue
			}
			env.Log.Debug().Err(err).Str("view", res.Route.Name).Msg("view failed")
		}

		// Resume the navigation a forced login redirect interrupted.
		if target := resumeTarget(env, res); target != "" {
			res = env.Router.Navigate(target)
			continue
		}

		entries := consoleMenu()
		labels := make([]string, len(entries))
		for i, entry := range entries {
			labels[i] = entry.label
		}

		prompt := promptui.Select{
			Label: fmt.Sprintf("Navigate (%s)", res.Route.Title),
			Items: labels,
			Size:  len(labels),
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return nil // interrupted
		}

		entry := entries[idx]
		if entry.path == "" {
			return nil
		}

		path := entry.path
		if strings.Contains(path, ":id") {
			id, err := promptModelID()
			if err != nil {
				continue
			}
			path = strings.Replace(path, ":id", id, 1)
		}

		res = env.Router.Navigate(path)
	}
}

func promptModelID() (string, error) {
	prompt := promptui.Prompt{Label: "Model id"}
	return prompt.Run()
}

// renderView prints the view navigation landed on. Views that need
// data call straight through the API client, so an expired token
// surfaces here as the forced login redirect.
func renderView(ctx context.Context, env *Env, res *nav.Resolution) error {
	fmt.Printf("\n— %s —\n", res.Route.Title)

	switch res.Route.Name {
	case "Login":
		return consoleLogin(ctx, env, res)
	case "Register":
		fmt.Println("Run 'mcloud register' to create an account.")
		return nil
	case "Home":
		return renderHome(ctx, env)
	case "ModelList":
		page, err := env.Client.ModelPage(ctx, api.ModelQuery{PageSize: 10})
		if err != nil {
			return err
		}
		printModelPage(page)
		return nil
	case "ModelDetail":
		segments := strings.Split(strings.Trim(res.Path, "/"), "/")
		id, err := parseID(segments[len(segments)-1])
		if err != nil {
			return err
		}
		model, err := env.Client.ModelDetail(ctx, id)
		if err != nil {
			return err
		}
		printModelDetail(model)
		return nil
	case "MyCollects":
		page, err := env.Client.MyCollects(ctx, api.ModelQuery{PageSize: 10})
		if err != nil {
			return err
		}
		printModelPage(page)
		return nil
	case "UserList":
		page, err := env.Client.UserPage(ctx, api.UserQuery{PageSize: 10})
		if err != nil {
			return err
		}
		printUserPage(page)
		return nil
	case "Profile":
		profile, err := env.Client.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if err := env.Sessions.SetUserInfo(profile); err != nil {
			env.Log.Warn().Err(err).Msg("failed to persist user info")
		}
		printUserDetail(&api.User{
			ID:       profile.ID,
			Username: profile.Username,
			Nickname: profile.Nickname,
			Email:    profile.Email,
			Phone:    profile.Phone,
		})
		return nil
	default:
		fmt.Println("Nothing here.")
		return nil
	}
}

// renderHome shows the statistics snapshot and recent activity,
// falling back to the persisted snapshot when the refresh fails.
func renderHome(ctx context.Context, env *Env) error {
	snapshot, err := stats.Refresh(ctx, env.Client, env.Storage, env.Log)
	if err != nil {
		if api.IsAuthExpired(err) {
			return err
		}
		cached, ok := stats.Cached(env.Storage, env.Log)
		if !ok {
			return err
		}
		fmt.Println("(cached)")
		snapshot = cached
	}
	printStats(snapshot)

	activities, err := env.Client.MyActivities(ctx, 5)
	if err != nil || len(activities) == 0 {
		return err
	}
	fmt.Println("\nRecent activity:")
	printModels(activities)
	return nil
}

// consoleLogin performs the in-console login flow, then resumes the
// navigation recorded in the redirect query parameter.
func consoleLogin(ctx context.Context, env *Env, res *nav.Resolution) error {
	if env.Sessions.IsLoggedIn() {
		fmt.Printf("Logged in as %s.\n", env.Sessions.Nickname())
		return nil
	}

	userPrompt := promptui.Prompt{Label: "Username"}
	username, err := userPrompt.Run()
	if err != nil {
		return nil
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	captcha, captchaKey, err := solveCaptcha(ctx, env)
	if err != nil {
		return err
	}

	resp, err := env.Client.Login(ctx, api.LoginRequest{
		Username:   username,
		Password:   string(password),
		Captcha:    captcha,
		CaptchaKey: captchaKey,
	})
	if err != nil {
		return err
	}

	if err := env.Sessions.SetToken(resp.Token); err != nil {
		return err
	}
	profile := resp.UserInfo
	if err := env.Sessions.SetUserInfo(&profile); err != nil {
		env.Log.Warn().Err(err).Msg("failed to persist user info")
	}
	fmt.Printf("✓ Welcome, %s.\n", env.Sessions.Nickname())
	return nil
}

// resumeTarget returns the path an interrupted navigation should resume
// at once the login view has a session again.
func resumeTarget(env *Env, res *nav.Resolution) string {
	if res.Route.Name != "Login" || !env.Sessions.IsLoggedIn() {
		return ""
	}
	if res.Query == nil {
		return ""
	}
	return res.Query.Get("redirect")
}
