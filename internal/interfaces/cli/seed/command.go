package seed

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/database"
	infrapermission "helpdesk/internal/infrastructure/permission"
	"helpdesk/internal/infrastructure/persistence/seeds"
	"helpdesk/internal/infrastructure/repository"
	"helpdesk/internal/interfaces/cli/bootstrap"
	"helpdesk/internal/shared/db"
)

const passwordEnvVar = "HELPDESK_SEED_PASSWORD"

var (
	env          string
	fixturesPath string
	password     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
		Long: `Insert roles, permissions, departments, demo staff, problem types and
equipment that are not present yet. Running it again changes nothing.

The demo password comes from --password, then ` + passwordEnvVar + `, then an
interactive prompt.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&fixturesPath, "file", "f", "", "YAML fixture file (default: built-in fixtures)")
	cmd.Flags().StringVar(&password, "password", "", "Password for seeded demo users")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	fixtures, err := loadFixtures()
	if err != nil {
		return err
	}

	pw, err := resolvePassword(cmd)
	if err != nil {
		return err
	}

	cfg, log, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer database.Close()

	gdb := database.Get()
	seeder := seeds.NewSeeder(
		db.NewTransactionManager(gdb),
		repository.NewRoleRepository(gdb),
		repository.NewPermissionRepository(gdb),
		repository.NewDepartmentRepository(gdb),
		repository.NewUserRepository(gdb, log),
		repository.NewProblemTypeRepository(gdb),
		repository.NewEquipmentRepository(gdb),
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		infrapermission.NewPermissionSync(gdb, log),
		log,
	)

	if err := seeder.Seed(cmd.Context(), fixtures, pw); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Seed data loaded")
	return nil
}

func loadFixtures() (*seeds.Fixtures, error) {
	if fixturesPath == "" {
		return seeds.DefaultFixtures()
	}
	data, err := os.ReadFile(fixturesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return seeds.ParseFixtures(data)
}

func resolvePassword(cmd *cobra.Command) (string, error) {
	if password != "" {
		return password, nil
	}
	if v := os.Getenv(passwordEnvVar); v != "" {
		return v, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no seed password: pass --password or set %s", passwordEnvVar)
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password for demo users: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	pw := strings.TrimSpace(string(raw))
	if pw == "" {
		return "", fmt.Errorf("seed password is required")
	}
	return pw, nil
}
