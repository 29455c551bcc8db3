package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/focusflow/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local user profiles",
}

var (
	userEmail   string
	userNoUse   bool
	userJSON    bool
	userName    string
	userAvatar  string
	userPremium string
)

var userCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a user and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		u, err := s.CreateUser(args[0], optionalString(userEmail))
		if err != nil {
			return err
		}
		if !userNoUse {
			if err := s.SetCurrentUser(u.ID); err != nil {
				return err
			}
		}
		logger.Info("user created", "id", u.ID)
		fmt.Printf("Created user %s (%s)\n", u.Name, u.ID)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		u, err := p.User()
		if err != nil {
			return err
		}
		if userJSON {
			return printJSON(u)
		}

		fmt.Printf("ID:      %s\n", u.ID)
		fmt.Printf("Name:    %s\n", u.Name)
		if u.Email != nil {
			fmt.Printf("Email:   %s\n", *u.Email)
		}
		if u.AvatarPath != nil {
			fmt.Printf("Avatar:  %s\n", *u.AvatarPath)
		}
		fmt.Printf("Joined:  %s\n", u.JoinDate)
		fmt.Printf("Premium: %t\n", u.IsPremium)
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change fields of the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, p, err := openProfile()
		if err != nil {
			return err
		}
		defer s.Close()

		var c store.UserChanges
		if cmd.Flags().Changed("name") {
			c.Name = &userName
		}
		if cmd.Flags().Changed("email") {
			c.Email = &userEmail
		}
		if cmd.Flags().Changed("avatar") {
			c.AvatarPath = &userAvatar
		}
		if cmd.Flags().Changed("premium") {
			premium := userPremium == "true"
			if !premium && userPremium != "false" {
				return fmt.Errorf("--premium must be true or false, got %q", userPremium)
			}
			c.IsPremium = &premium
		}

		u, err := s.UpdateUser(p.UserID(), c)
		if err != nil {
			return err
		}
		fmt.Printf("Updated user %s (%s)\n", u.Name, u.ID)
		return nil
	},
}

var userUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a user the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SetCurrentUser(args[0]); err != nil {
			return err
		}
		fmt.Printf("Now using %s\n", args[0])
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user and all of their data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteUser(args[0]); err != nil {
			return err
		}
		logger.Info("user deleted", "id", args[0])
		fmt.Printf("Deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().BoolVar(&userNoUse, "no-use", false, "do not make the new user current")

	userShowCmd.Flags().BoolVar(&userJSON, "json", false, "output as JSON")

	userUpdateCmd.Flags().StringVar(&userName, "name", "", "new display name")
	userUpdateCmd.Flags().StringVar(&userEmail, "email", "", "new email address")
	userUpdateCmd.Flags().StringVar(&userAvatar, "avatar", "", "new avatar path")
	userUpdateCmd.Flags().StringVar(&userPremium, "premium", "", "premium flag (true or false)")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userUseCmd)
	userCmd.AddCommand(userDeleteCmd)
}
