package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/calendar"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/messaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucappointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/calendarsync"
	ucclient "github.com/BruksfildServices01/salon-scheduler/internal/usecase/client"
	ucmessage "github.com/BruksfildServices01/salon-scheduler/internal/usecase/message"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/reminder"
	"github.com/BruksfildServices01/salon-scheduler/internal/workers"
)

// App holds the wired singletons shared by the API server and the CLI.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB

	BusinessLoc *time.Location
	DisplayLoc  *time.Location

	Repo     *repository.GormRepository
	Calendar *calendar.GoogleCalendar
	WhatsApp *messaging.WhatsAppClient
	Archive  archive.Archiver
	Audit    *audit.Dispatcher

	CreateAppointment *ucappointment.CreateAppointment
	CancelAppointment *ucappointment.CancelAppointment
	MarkAttendance    *ucappointment.MarkAttendance
	DeleteAppointment *ucappointment.DeleteAppointment
	ListByDate        *ucappointment.ListAppointmentsByDate

	UpdateAppointment  *ucappointment.UpdateAppointment
	SearchAppointments *ucappointment.SearchAppointments

	SendMessage *ucmessage.SendMessage

	Sync      *calendarsync.RunSync
	FixData   *calendarsync.FixAppointmentData
	Reminders *reminder.RunReminders
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if !timezone.IsValid(cfg.BusinessTimezone) {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q", cfg.BusinessTimezone)
	}
	if !timezone.IsValid(cfg.DisplayTimezone) {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q", cfg.DisplayTimezone)
	}

	locker, err := lock.New(cfg.RedisURL, logger)
	if err != nil {
		return nil, err
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}

	businessLoc := timezone.Location(cfg.BusinessTimezone)
	displayLoc := timezone.Location(cfg.DisplayTimezone)

	repo := repository.NewGormRepository(db)
	resolver := ucclient.NewResolver(repo, logger)

	cal := calendar.NewGoogleCalendar(cfg.Calendar, businessLoc, logger)
	wa := messaging.NewWhatsAppClient(cfg.Messaging, logger)
	arch := archive.FromConfig(cfg.Archive)
	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	reconciler := calendarsync.NewReconciler(repo, resolver, logger)

	dispatcher := reminder.NewDispatcher(repo, repo, wa, reminder.Options{
		Template:       cfg.Reminders.Template,
		ActiveStatuses: cfg.Reminders.ActiveStatuses,
		BusinessLoc:    businessLoc,
		DisplayLoc:     displayLoc,
	}, logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		BusinessLoc: businessLoc,
		DisplayLoc:  displayLoc,
		Repo:        repo,
		Calendar:    cal,
		WhatsApp:    wa,
		Archive:     arch,
		Audit:       auditDispatcher,

		CreateAppointment: ucappointment.NewCreateAppointment(repo, resolver, auditDispatcher, businessLoc),
		CancelAppointment: ucappointment.NewCancelAppointment(repo, auditDispatcher),
		MarkAttendance:    ucappointment.NewMarkAttendance(repo, auditDispatcher),
		DeleteAppointment: ucappointment.NewDeleteAppointment(repo, cal, auditDispatcher, logger),
		ListByDate:        ucappointment.NewListAppointmentsByDate(repo, businessLoc),

		UpdateAppointment:  ucappointment.NewUpdateAppointment(repo, auditDispatcher, businessLoc),
		SearchAppointments: ucappointment.NewSearchAppointments(repo, businessLoc),

		SendMessage: ucmessage.NewSendMessage(wa, repo, auditDispatcher, logger),

		Sync:      calendarsync.NewRunSync(cal, reconciler, locker, auditDispatcher, arch, cfg.Calendar, logger),
		FixData:   calendarsync.NewFixAppointmentData(repo, resolver, auditDispatcher, logger),
		Reminders: reminder.NewRunReminders(dispatcher, wa, cfg.Reminders.Windows, locker, auditDispatcher, arch, logger),
	}, nil
}

// Workers returns the periodic sync and reminder jobs.
func (a *App) Workers() *workers.Manager {
	m := workers.NewManager(a.Logger)
	m.Register(workers.SyncWorker(a.Sync, a.Config.Jobs.SyncInterval))
	m.Register(workers.ReminderWorker(a.Reminders, a.Config.Jobs.ReminderInterval))
	return m
}

// Close drains pending audit events and closes the database.
func (a *App) Close(ctx context.Context) {
	a.Audit.Close(ctx)

	if err := dbpkg.Close(a.DB); err != nil {
		a.Logger.Warn("close database", zap.Error(err))
	}
}
