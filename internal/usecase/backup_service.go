package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/pickemleague/pickem-api/internal/domain/game"
	"github.com/pickemleague/pickem-api/internal/domain/pick"
	"github.com/pickemleague/pickem-api/internal/domain/user"
	"github.com/pickemleague/pickem-api/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"
)

const backupSchemaVersion = 1

type BackupService struct {
	userRepo user.Repository
	gameRepo game.Repository
	pickRepo pick.Repository
	logger   *logging.Logger
	dir      string
	keep     int
	now      func() time.Time
}

func NewBackupService(userRepo user.Repository, gameRepo game.Repository, pickRepo pick.Repository, logger *logging.Logger, dir string, keep int) *BackupService {
	if logger == nil {
		logger = logging.Default()
	}
	if keep < 1 {
		keep = 1
	}
	return &BackupService{
		userRepo: userRepo,
		gameRepo: gameRepo,
		pickRepo: pickRepo,
		logger:   logger,
		dir:      dir,
		keep:     keep,
		now:      time.Now,
	}
}

type backupDocument struct {
	SchemaVersion int         `json:"schemaVersion"`
	CreatedAt     time.Time   `json:"createdAt"`
	Users         []user.User `json:"users"`
	Games         []game.Game `json:"games"`
	Picks         []pick.Pick `json:"picks"`
}

type BackupInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create snapshots users, games and picks into one JSON file under the
// backup directory, then prunes snapshots beyond the retention count.
func (s *BackupService) Create(ctx context.Context) (BackupInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.Create")
	defer span.End()

	doc := backupDocument{
		SchemaVersion: backupSchemaVersion,
		CreatedAt:     s.now().UTC(),
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.userRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		doc.Users = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.gameRepo.List(ctx, 0)
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		doc.Games = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.pickRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list picks: %w", err)
		}
		doc.Picks = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return BackupInfo{}, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup dir: %w", err)
	}

	// Encode straight into a pooled buffer so back-to-back snapshots reuse
	// the same allocation.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(doc); err != nil {
		return BackupInfo{}, fmt.Errorf("encode backup: %w", err)
	}

	name := fmt.Sprintf("backup-%s.json", doc.CreatedAt.Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write backup file: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		s.logger.WarnContext(ctx, "backup prune failed", "error", err)
	}

	s.logger.InfoContext(ctx, "backup created",
		"name", name,
		"users", len(doc.Users),
		"games", len(doc.Games),
		"picks", len(doc.Picks),
	)

	return BackupInfo{
		Name:      name,
		SizeBytes: int64(buf.Len()),
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *BackupService) List(ctx context.Context) ([]BackupInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.List")
	defer span.End()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	out := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Restore replaces the whole dataset with the named snapshot.
func (s *BackupService) Restore(ctx context.Context, name string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.Restore")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("%w: invalid backup name", ErrInvalidInput)
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: backup=%s", ErrNotFound, name)
		}
		return fmt.Errorf("read backup file: %w", err)
	}

	var doc backupDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: corrupt backup file: %v", ErrInvalidInput, err)
	}
	if doc.SchemaVersion != backupSchemaVersion {
		return fmt.Errorf("%w: unsupported backup schema %d", ErrInvalidInput, doc.SchemaVersion)
	}

	// Users and games must land before picks so the restored picks never
	// dangle.
	if err := s.userRepo.ReplaceAll(ctx, doc.Users); err != nil {
		return fmt.Errorf("restore users: %w", err)
	}
	if err := s.gameRepo.ReplaceAll(ctx, doc.Games); err != nil {
		return fmt.Errorf("restore games: %w", err)
	}
	if err := s.pickRepo.ReplaceAll(ctx, doc.Picks); err != nil {
		return fmt.Errorf("restore picks: %w", err)
	}

	s.logger.InfoContext(ctx, "backup restored",
		"name", name,
		"users", len(doc.Users),
		"games", len(doc.Games),
		"picks", len(doc.Picks),
	)
	return nil
}

func (s *BackupService) prune(ctx context.Context) error {
	backups, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i := s.keep; i < len(backups); i++ {
		if err := os.Remove(filepath.Join(s.dir, backups[i].Name)); err != nil {
			return fmt.Errorf("remove old backup %s: %w", backups[i].Name, err)
		}
	}
	return nil
}
