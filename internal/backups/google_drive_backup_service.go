package backups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/repslog/server/internal/workouts"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	rootBackupsFolderName = "repslog-backup"
	sessionsFileChunkSize = 200 // number of workout sessions in one backup file
)

type sessionsSource interface {
	ListCreatedAfter(ctx context.Context, after time.Time, limit int) ([]workouts.Session, error)
}

// GoogleDriveBackupService exports workout sessions as JSON chunk
// files to a Google Drive folder. Backups are incremental: the
// creation time of the newest backup file is the watermark, only
// sessions created after it get exported.
type GoogleDriveBackupService struct {
	sessions        sessionsSource
	service         *drive.Service
	backupsFolderId string
	readerEmail     string
}

func NewGoogleDriveBackupService(
	ctx context.Context,
	credentialsJson []byte,
	sessions sessionsSource,
	readerEmail string,
) (*GoogleDriveBackupService, error) {
	// https://github.com/googleapis/google-api-go-client/blob/master/drive/v3/drive-gen.go
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	rootFolderQuery := fmt.Sprintf(
		"mimeType = 'application/vnd.google-apps.folder' and trashed = false and name = '%s'",
		rootBackupsFolderName,
	)
	backupFolders, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	backupsFolderId := ""
	switch len(backupFolders.Files) {
	case 0:
		log.Println("root backups folder not found, will recreate")
	case 1:
		rbf := backupFolders.Files[0]
		log.Printf("root backups folder found, %s: %s", rbf.Name, rbf.Id)
		backupsFolderId = rbf.Id
	default:
		rbf := backupFolders.Files[0]
		log.Printf("attention: found %d root backups folders, will take the first one: %s", len(backupFolders.Files), rbf.Id)
		backupsFolderId = rbf.Id
	}

	s := &GoogleDriveBackupService{
		sessions:    sessions,
		service:     driveService,
		readerEmail: readerEmail,
	}

	if backupsFolderId == "" {
		log.Println("root backups folder not found, recreating ...")
		backupsFolderId, err = s.createRootBackupsFolder()
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Printf("new root backups folder created: %s", backupsFolderId)
	}

	s.backupsFolderId = backupsFolderId

	return s, nil
}

// Reinit drops the whole backups folder and does a full backup from scratch.
func (s *GoogleDriveBackupService) Reinit(ctx context.Context, baseTime time.Time) (int, error) {
	log.Println("workout sessions backup reinit starting ...")

	if err := s.service.Files.Delete(s.backupsFolderId).Do(); err != nil {
		return 0, err
	}

	backupsFolderId, err := s.createRootBackupsFolder()
	if err != nil {
		return 0, fmt.Errorf("failed to create root backups folder: %w", err)
	}

	log.Printf("new root backups folder created: %s", backupsFolderId)

	s.backupsFolderId = backupsFolderId

	return s.DoBackup(ctx, baseTime)
}

// DoBackup exports all sessions created since the last backup run and
// returns the number of sessions backed up.
func (s *GoogleDriveBackupService) DoBackup(ctx context.Context, baseTime time.Time) (int, error) {
	currentBackupFiles, err := s.getBackupFiles(s.backupsFolderId)
	if err != nil {
		return 0, err
	}

	lastCreatedAt := time.Time{}
	for _, file := range currentBackupFiles {
		createdAt, err := time.Parse(time.RFC3339, file.CreatedTime)
		if err != nil {
			log.Printf(" ---> error parsing created at for file %s: %s", file.Name, err)
			continue
		}
		log.Printf(" -- [%v]: %s (%s)", createdAt, file.Name, file.Id)

		if createdAt.After(lastCreatedAt) {
			lastCreatedAt = createdAt
		}
	}

	if lastCreatedAt.IsZero() {
		log.Println("backups empty, creating initial backup ...")
	} else {
		log.Printf("backing up workout sessions created since %v", lastCreatedAt)
	}

	backedUp := 0
	chunkCounter := 1
	after := lastCreatedAt
	for {
		sessions, err := s.sessions.ListCreatedAfter(ctx, after, sessionsFileChunkSize)
		if err != nil {
			return backedUp, fmt.Errorf("failed to get next backup sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}

		chunkFrom := sessions[0].CreatedAt
		chunkTo := sessions[len(sessions)-1].CreatedAt
		chunkFileName := fmt.Sprintf(
			"workout-sessions_%s_%s_%d-%d-%d_%d.json",
			chunkFrom.Format("20060102T150405"),
			chunkTo.Format("20060102T150405"),
			baseTime.Day(), baseTime.Month(), baseTime.Year(),
			chunkCounter,
		)

		if err := s.backupSessions(sessions, chunkFileName); err != nil {
			return backedUp, fmt.Errorf("failed to backup sessions: %w", err)
		}

		backedUp += len(sessions)
		chunkCounter++
		after = chunkTo
	}

	if backedUp == 0 {
		log.Println("no new workout sessions to backup, done")
		return 0, nil
	}

	log.Printf("backup since %v successfully saved, %d sessions", lastCreatedAt, backedUp)

	return backedUp, nil
}

func (s *GoogleDriveBackupService) createRootBackupsFolder() (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     rootBackupsFolderName,
		MimeType: "application/vnd.google-apps.folder",
	}

	bfRes, err := s.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	if pId, err := s.updateFilePermission(bfRes.Id); err != nil {
		return bfRes.Id, fmt.Errorf("failed to create additional permission for root backup folder: %s", err)
	} else {
		log.Printf("permission %s created for root backup folder %s", pId, bfRes.Id)
	}

	return bfRes.Id, nil
}

func (s *GoogleDriveBackupService) backupSessions(sessions []workouts.Session, fileName string) error {
	sessionsJson, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal workout sessions: %w", fileName, err)
	}

	log.Printf("%s: creating file with %d workout sessions on google drive ...", fileName, len(sessions))
	fileMeta := &drive.File{
		Name: fileName,
		// https://developers.google.com/drive/api/v3/mime-types
		MimeType: "application/vnd.google-apps.file",
		Parents:  []string{s.backupsFolderId},
	}

	backupChunkFile, err := s.service.
		Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(sessionsJson)).
		Do()
	if err != nil {
		return fmt.Errorf("%s: failed to create sessions backup file: %w", fileName, err)
	}

	permissionId, err := s.updateFilePermission(backupChunkFile.Id)
	if err != nil {
		return fmt.Errorf("%s: failed to create additional permission: %s", fileName, err)
	}

	log.Printf("%s: backup file [permission %s] saved: %s", fileName, permissionId, backupChunkFile.Id)

	return nil
}

func (s *GoogleDriveBackupService) updateFilePermission(fileId string) (string, error) {
	permission := &drive.Permission{
		EmailAddress: s.readerEmail,
		Type:         "user",
		Role:         "reader",
	}

	createdPermission, err := s.service.Permissions.
		Create(fileId, permission).
		Do()
	if err != nil {
		return "", err
	}

	return createdPermission.Id, nil
}

func (s *GoogleDriveBackupService) getBackupFiles(backupFolderId string) ([]*drive.File, error) {
	backupsQuery := fmt.Sprintf(
		"'%s' in parents and mimeType != 'application/vnd.google-apps.folder' and trashed = false",
		backupFolderId,
	)
	backups, err := s.service.
		Files.List().
		Q(backupsQuery).
		Fields("files(id, name, createdTime)").
		Do()
	if err != nil {
		return nil, err
	}

	return backups.Files, nil
}
