package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shaharia-lab/notificator/internal/build"
	"github.com/shaharia-lab/notificator/internal/config"
	"github.com/shaharia-lab/notificator/internal/eventbus"
	"github.com/shaharia-lab/notificator/internal/logger"
	"github.com/shaharia-lab/notificator/internal/notification"
	"github.com/shaharia-lab/notificator/internal/service"
	"github.com/shaharia-lab/notificator/internal/storage"
	"github.com/shaharia-lab/notificator/internal/telemetry"
)

// app bundles the long-lived components shared by serve and dispatch.
type app struct {
	logger  *slog.Logger
	service service.DispatchService

	db        *sql.DB
	bus       eventbus.EventBus
	telemetry *telemetry.Telemetry
	logFile   io.Closer
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	if err := cfg.ValidateMail(); err != nil {
		return nil, fmt.Errorf("invalid mail configuration: %w", err)
	}

	sysLogger, logFile, err := logger.NewSystemLogger(cfg.LogDir(), cfg.SlogLevel(), cfg.LogMaxSizeMB)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	a := &app{logFile: logFile}

	a.telemetry, err = telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.OTelEnabled,
		ServiceName:    "notificator",
		ServiceVersion: build.Version,
		Endpoint:       cfg.OTelEndpoint,
		Insecure:       cfg.OTelInsecure,
		SamplingRate:   cfg.OTelSamplingRate,
		Logger:         sysLogger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("initializing telemetry: %w", err), a.Close(ctx))
	}
	a.logger = logger.Tee(sysLogger, a.telemetry.LogHandler)

	a.logger.Info("notificator starting",
		slog.String("data_dir", cfg.DataDir),
		slog.String("smtp_host", cfg.SMTPHost),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	a.db, _, err = storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("opening database: %w", err), a.Close(ctx))
	}
	logStore := storage.NewSQLiteNotificationStore(a.db)

	provider := notification.NewSMTPProvider(notification.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		FromAddr:   cfg.FromAddress,
		Encryption: cfg.SMTPEncryption,
	})

	a.bus = eventbus.New(a.logger, 0)
	a.bus.Subscribe(eventbus.LogListener(a.logger))

	a.service = service.NewDispatchService(service.DispatchDeps{
		Generator: notification.NewTemplateGenerator(cfg.SubjectPrefix, cfg.BrandName),
		Sender:    notification.NewRememberingSender(provider, logStore, a.logger),
		Notifier:  notification.NewAdminFailureNotifier(provider, cfg.AdminAddresses, cfg.SubjectPrefix, logStore, a.logger),
		Pending:   storage.NewSQLitePendingStore(a.db),
		Runs:      storage.NewSQLiteRunStore(a.db),
		Log:       logStore,
		Events:    a.bus,
		Logger:    a.logger,
	})
	return a, nil
}

// Close releases every component in reverse order of creation.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.bus != nil {
		a.bus.Close()
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Shutdown(ctx))
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
