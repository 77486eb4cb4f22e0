package main

import (
	"encoding/json"
	"fmt"
	"os"

	"pawnshop-ledger/internal/adapter/repository/gormrepo"
	"pawnshop-ledger/internal/domain/user"
	"pawnshop-ledger/internal/usecase/ledger"
	"pawnshop-ledger/pkg/id"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(capitalCmd)
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)

	userAddCmd.Flags().Bool("admin", false, "Grant the admin role")
	userAddCmd.Flags().Bool("disabled", false, "Create the account disabled")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ledger tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, log, gdb, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if err := gormrepo.AutoMigrate(gdb); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}

var capitalCmd = &cobra.Command{
	Use:   "capital",
	Short: "Print the shop's capital from the transaction log",
	Long: `Replays the transaction log onto the base capital and cross-checks the
result against the loan table. Exits non-zero when the two disagree.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, gdb, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		settings, err := cfg.Ledger()
		if err != nil {
			return err
		}
		eng := ledger.NewEngine(gormrepo.NewGormUoW(gdb), settings, ledger.WithLogger(log))
		rep, err := eng.GetCurrentCapital(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
		if !rep.Consistent {
			return fmt.Errorf("capital mismatch: log replay %s, loan table %s", rep.Capital, rep.Accumulated)
		}
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage ledger accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Register an account and print its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, gdb, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		admin, _ := cmd.Flags().GetBool("admin")
		disabled, _ := cmd.Flags().GetBool("disabled")

		u := &user.User{UserID: id.NewID32(), Username: args[0], Role: user.RoleUser, Enabled: !disabled}
		if admin {
			u.Role = user.RoleAdmin
		}
		if err := gormrepo.NewUserRepository(gdb).Create(cmd.Context(), u); err != nil {
			return fmt.Errorf("create user %s: %w", args[0], err)
		}
		fmt.Fprintln(os.Stdout, u.UserID)
		return nil
	},
}
