package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/storyhub-org/storyhub/pkg/audit"
	"github.com/storyhub-org/storyhub/pkg/authn"
	"github.com/storyhub-org/storyhub/pkg/model"
	"github.com/storyhub-org/storyhub/pkg/server"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles and their API keys",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'profile' requires a subcommand (create-admin, reset-key)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var profileCreateAdminCmd = &cobra.Command{
	Use:   "create-admin <email> <display_name>",
	Short: "Create an administrator and print its API key",
	Long: `Create an active administrator profile with every permission and a fresh
API key. The key is printed once to stdout and cannot be recovered later.

Example:
  storyctl profile create-admin admin@example.org "Site Admin"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := connect()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer e.close()

		p, key, err := createAdmin(cmd.Context(), e.stores, e.audit, args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create admin %s: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Created admin %s (%s)\n", *p.Email, p.ID)
		fmt.Println(key)
	},
}

var profileResetKeyCmd = &cobra.Command{
	Use:   "reset-key <email|id>",
	Short: "Rotate a profile's API key",
	Long: `Replace a profile's API key and print the new one to stdout. The old key
stops working immediately; tokens already issued stay valid until they expire.

Example:
  storyctl profile reset-key admin@example.org`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := connect()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer e.close()

		key, err := resetKey(cmd.Context(), e.stores, e.audit, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset key for %s: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Println(key)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileCreateAdminCmd)
	profileCmd.AddCommand(profileResetKeyCmd)
}

func createAdmin(ctx context.Context, stores server.Stores, rec *audit.Recorder, email, name string) (*model.Profile, string, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address %q", email)
	}
	if name == "" {
		return nil, "", fmt.Errorf("display name is required")
	}

	p := &model.Profile{
		DisplayName: name,
		Email:       &email,
		Role:        model.RoleAdmin,
		IsActive:    true,
	}
	p.ApplyPermissions(model.Permissions{CanPublish: true, CanUpload: true, CanManageProjects: true})
	if err := stores.Profiles.CreateProfile(ctx, p); err != nil {
		return nil, "", err
	}

	key, err := authn.NewAuthenticator(stores.Profiles, stores.Credentials, nil).RotateAPIKey(ctx, p.ID)
	rec.Record(ctx, audit.MutationEvent{
		Actor:      cliActor,
		Action:     audit.ActionCreate,
		EntityType: "profile",
		EntityID:   p.ID.String(),
		Success:    err == nil,
		Details:    map[string]interface{}{"role": string(p.Role)},
	})
	if err != nil {
		return nil, "", fmt.Errorf("issue api key: %w", err)
	}
	return p, key, nil
}

// resetKey accepts either a profile id or an email address.
func resetKey(ctx context.Context, stores server.Stores, rec *audit.Recorder, ref string) (string, error) {
	var (
		p   *model.Profile
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		p, err = stores.Profiles.GetProfile(ctx, id)
	} else {
		p, err = stores.Profiles.FindProfileByEmail(ctx, ref)
	}
	if err != nil {
		return "", err
	}

	key, err := authn.NewAuthenticator(stores.Profiles, stores.Credentials, nil).RotateAPIKey(ctx, p.ID)
	ev := audit.MutationEvent{
		Actor:      cliActor,
		Action:     audit.ActionResetKey,
		EntityType: "profile",
		EntityID:   p.ID.String(),
		Success:    err == nil,
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	rec.Record(ctx, ev)
	return key, err
}
