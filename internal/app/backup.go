package app

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// RunBackupNow zips the data directory into workdir/backup and, when
// SFTP is configured, uploads the archive offsite.
func (a *Application) RunBackupNow() error {
	cfg := a.appConfig
	name := fmt.Sprintf("stockd-data-%s.zip", time.Now().Format("20060102-150405"))
	archive := filepath.Join(cfg.System.Workdir, "backup", name)

	if err := zipDir(cfg.DataDir(), archive); err != nil {
		return err
	}
	zap.L().Info("backup archive created", zap.String("path", archive))

	if cfg.Backup.SftpHost == "" {
		return nil
	}
	return a.uploadBackup(archive, name)
}

func (a *Application) uploadBackup(localPath, name string) error {
	cfg := a.appConfig.Backup
	addr := fmt.Sprintf("%s:%d", cfg.SftpHost, cfg.SftpPort)
	conn, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            cfg.SftpUser,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.SftpPwd)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return err
	}
	defer client.Close()

	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	remote := filepath.ToSlash(filepath.Join(cfg.SftpDir, name))
	dst, err := client.Create(remote)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	zap.L().Info("backup uploaded", zap.String("remote", remote))
	return nil
}

func zipDir(dir, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
}
