package main

import (
	"os"

	"booking-api/config"
	"booking-api/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	// .env es opcional: en producción las variables vienen del entorno
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := newRootCommand(cfg, logger).Execute(); err != nil {
		logger.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

// newRootCommand arma el CLI: serve (default), migrate y seed-admin
func newRootCommand(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "booking-api",
		Short:         "REST API para reservas de alojamientos, salones y canchas",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg, logger)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migra la base y arranca el servidor HTTP",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServer(cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Crea o actualiza las tablas y carga las comodidades por defecto",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := openDatabase(cfg, logger)
				if err != nil {
					return err
				}
				return migrate(db, logger)
			},
		},
		newSeedAdminCommand(cfg, logger),
	)

	return root
}

func newSeedAdminCommand(cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea el usuario administrador si no existe",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			if err := migrate(db, logger); err != nil {
				return err
			}
			return seedAdmin(cmd.Context(), db, email, password, logger)
		},
	}

	cmd.Flags().StringVar(&email, "email", cfg.AdminEmail, "email del administrador")
	cmd.Flags().StringVar(&password, "password", cfg.AdminPassword, "contraseña del administrador")
	return cmd
}
