package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a backend session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				fmt.Print("username: ")
				sc := bufio.NewScanner(os.Stdin)
				if !sc.Scan() {
					return sc.Err()
				}
				username = strings.TrimSpace(sc.Text())
			}
			fmt.Print("password: ")
			pw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return err
			}
			if err := a.client.Login(cmd.Context(), username, strings.TrimSpace(string(pw))); err != nil {
				return err
			}
			a.render.Success("logged in as %s", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the backend session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			a.render.Success("logged out")
			return nil
		},
	}
}
