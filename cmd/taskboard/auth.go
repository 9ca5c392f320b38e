package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Anthanoess/task-app/internal/handler"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the token to the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			c := a.client()
			auth, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			path, err := a.saveSession(auth.Token, auth.Role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s). Token saved to %s\n", username, auth.Role, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var req handler.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an employee account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.client().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) as %s\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username (at least 3 characters)")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "e-mail address for notifications")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (at least 6 characters)")
	return cmd
}

func newUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users that tasks can be assigned to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			t := table.New().Border(tableBorder).Headers("ID", "USERNAME")
			for _, u := range users {
				t.Row(u.ID, u.Username)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
