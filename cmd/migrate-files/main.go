package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/hadir-app/hadir-backend/internal/config"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
	"github.com/hadir-app/hadir-backend/internal/repository/postgresql"
)

// migrator moves uploaded files into the avatars/ and leaves/ path scheme
// and points the owning rows at the new location.
type migrator struct {
	storage storage.FileStorage
	users   user.UserRepository
	leaves  leave.LeaveRepository
	dryRun  bool

	moved   int
	skipped int
	failed  int
}

func main() {
	dryRun := flag.Bool("dry-run", false, "print the planned moves without touching files or rows")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})))

	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}

	m := &migrator{
		storage: fileStorage,
		users:   postgresql.NewUserRepository(db),
		leaves:  postgresql.NewLeaveRepository(db),
		dryRun:  *dryRun,
	}

	if err := m.migrateAvatars(ctx); err != nil {
		slog.Error("Avatar migration failed", "error", err)
		os.Exit(1)
	}
	if err := m.migrateAttachments(ctx); err != nil {
		slog.Error("Attachment migration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Migration finished", "moved", m.moved, "skipped", m.skipped, "failed", m.failed, "dry_run", m.dryRun)
	if m.failed > 0 {
		os.Exit(1)
	}
}

func (m *migrator) migrateAvatars(ctx context.Context) error {
	users, err := m.users.ListWithAvatar(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		dir := path.Dir(storage.AvatarPath(u.DivisionID, u.ID, "_"))
		m.relocate(ctx, "avatar", u.ID, *u.AvatarPath, dir, func(to string) error {
			return m.users.UpdateAvatar(ctx, u.ID, to)
		})
	}
	return nil
}

func (m *migrator) migrateAttachments(ctx context.Context) error {
	leaves, err := m.leaves.ListWithAttachment(ctx)
	if err != nil {
		return err
	}

	for _, l := range leaves {
		dir := path.Dir(storage.LeaveAttachmentPath(l.DivisionID, l.UserID, l.CreatedAt, "_", ""))
		m.relocate(ctx, "leave_attachment", l.ID, *l.AttachmentPath, dir, func(to string) error {
			return m.leaves.UpdateAttachmentPath(ctx, l.ID, to)
		})
	}
	return nil
}

// relocate moves from into dir keeping the file name. A file already under
// dir is left alone.
func (m *migrator) relocate(ctx context.Context, kind string, id string, from string, dir string, update func(to string) error) {
	from = strings.TrimPrefix(from, "/")
	if path.Dir(from) == dir {
		m.skipped++
		return
	}

	to := path.Join(dir, path.Base(from))
	log := slog.With("kind", kind, "id", id, "from", from, "to", to)

	if m.dryRun {
		log.Info("Would move file")
		m.moved++
		return
	}

	if err := m.storage.Move(ctx, from, to); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			log.Warn("Stored file is missing, keeping row as is")
			m.skipped++
			return
		}
		log.Error("Failed to move file", "error", err)
		m.failed++
		return
	}

	if err := update(to); err != nil {
		log.Error("Moved file but failed to update row", "error", err)
		m.failed++
		return
	}

	log.Info("Moved file")
	m.moved++
}
