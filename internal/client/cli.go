package client

import (
	"bufio"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/safenode/vaultsync/internal/sync"
	"github.com/safenode/vaultsync/models"
)

// NewRootCommand builds the client command tree on top of the app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "vaultsync",
		Short:         "End-to-end encrypted password vault with multi-device sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		registerCmd(app),
		loginCmd(app),
		addCmd(app),
		listCmd(app),
		showCmd(app),
		copyCmd(app),
		removeCmd(app),
		syncCmd(app),
		devicesCmd(app),
		forgetCmd(app),
	)
	return root
}

// unlock restores the stored session and prompts for the master password.
// Shared by every command that needs the decrypted vault.
func unlock(app *App, cmd *cobra.Command) error {
	if err := app.RestoreSession(); err != nil {
		return err
	}
	password, err := promptPassword(cmd.OutOrStdout(), "Master password")
	if err != nil {
		return err
	}
	return app.Unlock(cmd.Context(), password)
}

func promptCredentials(cmd *cobra.Command) (login, password string, err error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	login, err = promptLine(reader, cmd.OutOrStdout(), "Login")
	if err != nil {
		return "", "", err
	}
	password, err = promptPassword(cmd.OutOrStdout(), "Master password")
	if err != nil {
		return "", "", err
	}
	return login, password, nil
}

func registerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and enroll this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			login, password, err := promptCredentials(cmd)
			if err != nil {
				return err
			}
			if err := app.Register(cmd.Context(), login, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "account created, device enrolled")
			return nil
		},
	}
}

func loginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Open a session on this device",
		Long: `Open a session on this device. Any previously active session of the
account is replaced; other devices will need to log in again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			login, password, err := promptCredentials(cmd)
			if err != nil {
				return err
			}
			if err := app.Login(cmd.Context(), login, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged in")
			return nil
		},
	}
}

func addCmd(app *App) *cobra.Command {
	var (
		category string
		username string
		url      string
		notes    string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a vault entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(app, cmd); err != nil {
				return err
			}

			entry := models.VaultEntry{
				Category: models.Category(category),
				Title:    args[0],
				Username: username,
				URL:      url,
				Notes:    notes,
				Tags:     tags,
			}
			if entry.Category == models.CategoryPassword {
				secret, err := promptPassword(cmd.OutOrStdout(), "Entry password")
				if err != nil {
					return err
				}
				entry.Password = secret
			}

			added, err := app.AddEntry(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", added.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(models.CategoryPassword), "entry category (password, note, file, otp, credit-card)")
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&url, "url", "", "related URL")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	return cmd
}

func listCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vault entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := unlock(app, cmd); err != nil {
				return err
			}
			entries, err := app.Entries()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tTITLE\tTAGS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Category, e.Title, strings.Join(e.Tags, ","))
			}
			return w.Flush()
		},
	}
}

func showCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry without its secret fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(app, cmd); err != nil {
				return err
			}
			entry, err := app.Entry(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:    %s\n", entry.Title)
			fmt.Fprintf(out, "Category: %s\n", entry.Category)
			if entry.Username != "" {
				fmt.Fprintf(out, "Username: %s\n", entry.Username)
			}
			if entry.URL != "" {
				fmt.Fprintf(out, "URL:      %s\n", entry.URL)
			}
			if entry.Notes != "" {
				fmt.Fprintf(out, "Notes:    %s\n", entry.Notes)
			}
			if len(entry.Tags) > 0 {
				fmt.Fprintf(out, "Tags:     %s\n", strings.Join(entry.Tags, ", "))
			}
			fmt.Fprintln(out, "Secret fields are not printed; use copy instead.")
			return nil
		},
	}
}

func copyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id> <field>",
		Short: "Copy a secret field to the clipboard",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(app, cmd); err != nil {
				return err
			}
			if err := app.CopyField(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s copied to clipboard\n", args[1])
			return nil
		},
	}
}

func removeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a vault entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(app, cmd); err != nil {
				return err
			}
			return app.RemoveEntry(cmd.Context(), args[0])
		},
	}
}

func syncCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the vault with the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := unlock(app, cmd); err != nil {
				return err
			}

			out, err := app.Sync(cmd.Context())
			if err != nil && !errors.Is(err, sync.ErrOffline) {
				return err
			}
			reportSync(cmd, out)

			if !watch {
				return nil
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			stop := app.StartBackgroundSync(ctx)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl-C to stop")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep syncing periodically until interrupted")
	return cmd
}

func reportSync(cmd *cobra.Command, out sync.Outcome) {
	w := cmd.OutOrStdout()
	switch {
	case out.Queued:
		fmt.Fprintln(w, "server unreachable, changes queued locally")
	case out.Pushed && out.Conflicts > 0:
		fmt.Fprintf(w, "synced with %d conflict(s) resolved, vault at version %d\n", out.Conflicts, out.Vault.Version)
	case out.Pushed:
		fmt.Fprintf(w, "pushed, vault at version %d\n", out.Vault.Version)
	case out.Pulled:
		fmt.Fprintf(w, "pulled, vault at version %d\n", out.Vault.Version)
	default:
		fmt.Fprintln(w, "already up to date")
	}
}

func devicesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List this account's devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.RestoreSession(); err != nil {
				return err
			}
			devices, err := app.Devices(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE ID\tNAME\tPLATFORM\tSTATUS\tLAST SEEN")
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					d.DeviceID, d.Name, d.Platform, deviceStatus(d), d.LastSeen.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "approve <device-id>",
			Short: "Re-admit a removed device",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.RestoreSession(); err != nil {
					return err
				}
				device, err := app.ApproveDevice(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "device %s approved\n", device.DeviceID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <device-id>",
			Short: "Revoke a device and all its sessions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.RestoreSession(); err != nil {
					return err
				}
				revoked, err := app.RemoveDevice(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "device removed, %d session(s) revoked\n", revoked)
				return nil
			},
		},
	)
	return cmd
}

func forgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Wipe this device's session, token and cached vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Forget(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local state wiped")
			return nil
		},
	}
}

func deviceStatus(d models.Device) string {
	switch {
	case d.IsActive:
		return "active"
	case d.RequiresReapproval:
		return "needs approval"
	default:
		return "removed"
	}
}
