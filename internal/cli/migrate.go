package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trunov/thumbd/cmd/migrate"
)

func NewMigrateCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply job table migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			if err := migrate.Migrate(cfg.Database.DSN, migrate.Migrations); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}
