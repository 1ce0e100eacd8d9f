package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitnudge/internal/backup"
	"github.com/julianstephens/habitnudge/internal/cli"
	"github.com/julianstephens/habitnudge/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List database snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite databases")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	m, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := m.Create()
	if err != nil {
		return err
	}
	ctx.Println(cli.SuccessStyle.Render("Backup written to " + path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	m, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.Println(cli.MutedStyle.Render("No backups in " + m.Dir()))
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("Backups in %s", m.Dir())))
	for _, b := range backups {
		ctx.Printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			cli.MutedStyle.Render(fmt.Sprintf("%.1f KiB", float64(b.Size)/1024)))
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Snapshot file name or path."`
	Yes  bool   `help:"Confirm replacing the current database."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	m, err := backupManager(ctx)
	if err != nil {
		return err
	}
	if !c.Yes {
		return fmt.Errorf("restoring replaces the current database; re-run with --yes to confirm")
	}

	path := c.File
	if filepath.Base(path) == path {
		path = filepath.Join(m.Dir(), path)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, err := m.Restore(path)
	if previous != "" {
		ctx.Println(cli.MutedStyle.Render("Current database saved to " + previous))
	}
	if err != nil {
		return err
	}
	ctx.Println(cli.SuccessStyle.Render("Restored database from " + filepath.Base(path)))
	return nil
}
