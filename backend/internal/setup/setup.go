package setup

import (
	"context"
	"fmt"

	"github.com/qmail-dev/qmail/backend/internal/handler"
	"github.com/qmail-dev/qmail/backend/internal/notify"
	"github.com/qmail-dev/qmail/backend/internal/service"
	"github.com/qmail-dev/qmail/backend/internal/storage/pg"
	"github.com/qmail-dev/qmail/shared/config"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config     *config.Config
	Storage    *pg.Storage
	Dispatcher *notify.Dispatcher
	Handler    *handler.Handler
}

// SetupDependencies connects to the database, migrates it and wires the services.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps, err := Wire(cfg, storage)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}
	return deps, nil
}

// Wire builds everything above the storage layer.
func Wire(cfg *config.Config, storage *pg.Storage) (*Dependencies, error) {
	tmpl, err := notify.NewTemplate(cfg.Public.Notify.Template)
	if err != nil {
		return nil, fmt.Errorf("notification template: %w", err)
	}
	dispatcher := notify.NewDispatcher(notify.NewEmailSender(cfg.Private.Email, tmpl), cfg.Public.Notify)

	auth := service.NewAuth(storage, cfg.Public.Domain)
	mail := service.NewMail(storage, dispatcher, cfg.Public.MailboxLimit)

	return &Dependencies{
		Config:     cfg,
		Storage:    storage,
		Dispatcher: dispatcher,
		Handler:    handler.New(auth, mail, storage),
	}, nil
}

// Close drains pending notifications, then closes the database pool.
func (d *Dependencies) Close(ctx context.Context) error {
	dispatchErr := d.Dispatcher.Close(ctx)
	if err := d.Storage.Cleanup(); err != nil {
		return err
	}
	return dispatchErr
}
