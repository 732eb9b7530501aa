package commands

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/model-cloud/mcloud/internal/api"
)

// NewUserCmd creates the user administration command group (admin)
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer user accounts (admin)",
	}

	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserGetCmd())
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserUpdateCmd())
	cmd.AddCommand(newUserDeleteCmd())
	cmd.AddCommand(newUserEnableCmd())
	cmd.AddCommand(newUserDisableCmd())
	cmd.AddCommand(newUserResetPasswordCmd())
	cmd.AddCommand(newUserRolesCmd())

	return cmd
}

func newUserListCmd() *cobra.Command {
	var (
		query  api.UserQuery
		status int
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("status") {
				query.Status = &status
			}
			page, err := env.Client.UserPage(cmd.Context(), query)
			if err != nil {
				return err
			}
			printUserPage(page)
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Username, "username", "", "Filter by username")
	cmd.Flags().StringVar(&query.Nickname, "nickname", "", "Filter by nickname")
	cmd.Flags().StringVar(&query.Email, "email", "", "Filter by email")
	cmd.Flags().IntVar(&status, "status", 0, "Filter by status (0 disabled, 1 enabled)")
	cmd.Flags().IntVar(&query.PageNum, "page", 1, "Page number")
	cmd.Flags().IntVar(&query.PageSize, "page-size", 10, "Page size")

	return cmd
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show an account's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			user, err := env.Client.UserDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			printUserDetail(user)
			return nil
		},
	}
}

func newUserCreateCmd() *cobra.Command {
	var req api.UserCreateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}

			if req.Password == "" {
				if !term.IsTerminal(int(syscall.Stdin)) {
					return fmt.Errorf("password is required in non-interactive mode (use --password)")
				}
				fmt.Print("Password: ")
				password, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Println()
				req.Password = string(password)
			}

			if err := env.Client.CreateUser(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Printf("✓ User %q created.\n", req.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&req.Nickname, "nickname", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.RoleIDs, "role-ids", "", "Comma-separated role ids")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newUserUpdateCmd() *cobra.Command {
	var req api.UserUpdateRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.ID = id

			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			if err := env.Client.UpdateUser(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Printf("✓ User %d updated.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Nickname, "nickname", "", "New display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "New email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "New phone number")
	cmd.Flags().StringVar(&req.RoleIDs, "role-ids", "", "New comma-separated role ids")

	return cmd
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> [id...]",
		Aliases: []string{"delete"},
		Short:   "Delete one or more accounts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}

			if len(ids) == 1 {
				if err := env.Client.DeleteUser(cmd.Context(), ids[0]); err != nil {
					return err
				}
			} else {
				if err := env.Client.BatchDeleteUsers(cmd.Context(), ids); err != nil {
					return err
				}
			}
			fmt.Printf("✓ Deleted %d user(s).\n", len(ids))
			return nil
		},
	}
}

func newUserEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			if err := env.Client.EnableUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("✓ User %d enabled.\n", id)
			return nil
		},
	}
}

func newUserDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			if err := env.Client.DisableUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("✓ User %d disabled.\n", id)
			return nil
		},
	}
}

func newUserResetPasswordCmd() *cobra.Command {
	var newPassword string

	cmd := &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Reset an account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}

			if newPassword == "" {
				if !term.IsTerminal(int(syscall.Stdin)) {
					return fmt.Errorf("password is required in non-interactive mode (use --password)")
				}
				fmt.Print("New password: ")
				password, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Println()
				newPassword = string(password)
			}

			req := api.ResetPasswordRequest{ID: id, NewPassword: newPassword}
			if err := env.Client.ResetPassword(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Printf("✓ Password reset for user %d.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&newPassword, "password", "", "New password (will prompt if not provided)")

	return cmd
}

func newUserRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List assignable roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := requireAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			roleList, err := env.Client.RoleList(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tNAME\tDESCRIPTION")
			for _, role := range roleList {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", role.ID, role.RoleCode, role.RoleName, role.Description)
			}
			w.Flush()
			return nil
		},
	}
}

func printUserPage(page *api.Page[api.User]) {
	if len(page.Records) == 0 {
		fmt.Println("No users found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNICKNAME\tEMAIL\tSTATUS\tROLE")
	for i := range page.Records {
		u := &page.Records[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Nickname, u.Email, u.StatusText, u.HighestRoleCode)
	}
	w.Flush()
	fmt.Printf("\nPage %d/%d, %d users total\n", page.PageNumber, page.TotalPage, page.TotalRow)
}

func printUserDetail(u *api.User) {
	fmt.Printf("User:     %s (id %d)\n", u.Username, u.ID)
	if u.Nickname != "" {
		fmt.Printf("Nickname: %s\n", u.Nickname)
	}
	if u.Email != "" {
		fmt.Printf("Email:    %s\n", u.Email)
	}
	if u.Phone != "" {
		fmt.Printf("Phone:    %s\n", u.Phone)
	}
	fmt.Printf("Status:   %s\n", u.StatusText)
	if len(u.Roles) > 0 {
		codes := make([]string, 0, len(u.Roles))
		for _, role := range u.Roles {
			codes = append(codes, role.RoleCode)
		}
		fmt.Printf("Roles:    %s\n", strings.Join(codes, ", "))
	}
	fmt.Printf("Created:  %s\n", u.CreateTime)
}
