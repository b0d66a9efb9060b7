// Package cli expone tareas operativas (migraciones, alertas, reportes y alta de usuarios) como comandos cobra.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/ports"
	"github.com/jhoicas/stock-ledger-api/internal/application/reporting"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/storage"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// Option personaliza el comando raíz.
type Option func(*app)

// WithBackend inyecta un backend ya abierto (tests); se omite la lectura de configuración del almacén.
func WithBackend(b *storage.Backend) Option {
	return func(a *app) { a.backend = b }
}

// WithNotifier reemplaza el notificador SMTP.
func WithNotifier(n ports.LowStockNotifier) Option {
	return func(a *app) { a.notifier = n }
}

type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      *logger.Logger
	backend  *storage.Backend
	notifier ports.LowStockNotifier
	owned    bool
}

// NewRootCommand construye inventoryctl con sus subcomandos.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{v: viper.New()}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Tareas operativas del inventario",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.owned && a.backend != nil {
				a.backend.Close()
			}
		},
	}

	root.PersistentFlags().String("config", "", "archivo de configuración")
	root.PersistentFlags().String("store", "", "backend de almacenamiento: postgres|memory")
	root.PersistentFlags().String("log-level", "", "nivel de log")
	_ = a.v.BindPFlag("CONFIG", root.PersistentFlags().Lookup("config"))
	_ = a.v.BindPFlag("STORE_DRIVER", root.PersistentFlags().Lookup("store"))
	_ = a.v.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(a.migrateCmd(), a.lowStockCmd(), a.reportCmd(), a.createUserCmd())
	return root
}

// Execute ejecuta el CLI con los argumentos del proceso.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup() error {
	if file := a.v.GetString("CONFIG"); file != "" {
		a.v.SetConfigFile(file)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("leer configuración: %w", err)
		}
	}
	a.v.AutomaticEnv()

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	if a.notifier == nil && cfg.Mail.Enabled {
		a.notifier = mail.NewSMTPNotifier(cfg.Mail)
	}
	return nil
}

func (a *app) open(ctx context.Context) error {
	if a.backend != nil {
		return nil
	}
	b, err := storage.Open(ctx, a.cfg, a.log, false)
	if err != nil {
		return err
	}
	a.backend, a.owned = b, true
	return nil
}

func (a *app) reports() *reporting.ReportUseCase {
	alerter := inventory.NewLowStockAlerter(a.notifier, a.log)
	return reporting.NewReportUseCase(a.backend.Products, a.backend.History, a.backend.Reports, alerter, infrapdf.NewReportGenerator())
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes de PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Store.Driver != config.StoreDriverPostgres {
				return errors.New("migrate requiere STORE_DRIVER=postgres")
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, a.cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "sin migraciones pendientes")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintln(out, "aplicada:", name)
			}
			return nil
		},
	}
}

func (a *app) lowStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "low-stock",
		Short: "Lista los productos bajo su umbral y envía una alerta",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			out, err := a.reports().LowStock(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var in dto.ReportRequest
	var pdfPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Genera el reporte de inventario (JSON o PDF)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			uc := a.reports()
			if pdfPath == "" {
				report, err := uc.InventoryReport(ctx, in)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), report)
			}
			doc, err := uc.InventoryReportPDF(ctx, in)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, doc, 0o644); err != nil {
				return fmt.Errorf("escribir PDF: %w", err)
			}
			a.log.Info().Str("file", pdfPath).Int("bytes", len(doc)).Msg("reporte PDF generado")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.StartDate, "start", "", "fecha inicial (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.EndDate, "end", "", "fecha final inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "ruta del PDF de salida")
	return cmd
}

// createUserCmd crea usuarios con rol elegido; es la vía para dar de alta al primer admin.
func (a *app) createUserCmd() *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Crea un usuario con el rol indicado (admin|staff)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			uc := auth.NewAuthUseCase(a.backend.Users, a.backend.Tokens, auth.JWTConfig{
				Secret:     a.cfg.JWT.Secret,
				ExpMinutes: a.cfg.JWT.Expiration,
				Issuer:     a.cfg.JWT.Issuer,
			})
			user, err := uc.CreateUser(ctx, in)
			if err != nil {
				return err
			}
			a.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("usuario creado")
			return writeJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "nombre de usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "correo electrónico")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.Role, "role", "staff", "rol: admin|staff")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
