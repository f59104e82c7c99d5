package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	jsonMimeType   = "application/json"
	fileTimeLayout = "20060102-150405"
)

var ErrEmptyHistory = errors.New("history is empty, nothing to back up")

type historySource interface {
	RawHistory(ctx context.Context) ([]byte, error)
}

// GoogleDriveBackupService uploads the raw workout history blob into one Drive folder,
// one timestamped file per run.
type GoogleDriveBackupService struct {
	service    *drive.Service
	source     historySource
	folderName string
	shareEmail string
	folderID   string
	now        func() time.Time
}

type Params struct {
	FolderName string
	// ShareEmail gets reader access to the folder and every backup, skipped when empty.
	ShareEmail string
}

// NewGoogleDriveBackupService authenticates with a service account credentials json.
func NewGoogleDriveBackupService(
	ctx context.Context,
	credentialsJson []byte,
	source historySource,
	params Params,
) (*GoogleDriveBackupService, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}
	return NewWithDriveService(driveService, source, params), nil
}

func NewWithDriveService(driveService *drive.Service, source historySource, params Params) *GoogleDriveBackupService {
	return &GoogleDriveBackupService{
		service:    driveService,
		source:     source,
		folderName: params.FolderName,
		shareEmail: params.ShareEmail,
		now:        time.Now,
	}
}

func (s *GoogleDriveBackupService) WithClock(now func() time.Time) *GoogleDriveBackupService {
	s.now = now
	return s
}

// DoBackup uploads history-<timestamp>.json, creating the backups folder when missing.
func (s *GoogleDriveBackupService) DoBackup(ctx context.Context) (_ *drive.File, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "backup.drive")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	history, err := s.source.RawHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	folderID, err := s.ensureFolder(ctx)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("history-%s.json", s.now().UTC().Format(fileTimeLayout))
	span.SetAttributes(
		attribute.String("backup.file", fileName),
		attribute.Int("backup.bytes", len(history)),
	)

	created, err := s.service.Files.
		Create(&drive.File{
			Name:     fileName,
			MimeType: jsonMimeType,
			Parents:  []string{folderID},
		}).
		Fields("id, name, parents").
		Media(bytes.NewReader(history)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%s: create backup file: %w", fileName, err)
	}

	if err := s.share(ctx, created.Id); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}

	log.Printf("backup file [%s] saved: %s (%d bytes)", fileName, created.Id, len(history))
	return created, nil
}

func (s *GoogleDriveBackupService) ensureFolder(ctx context.Context) (string, error) {
	if s.folderID != "" {
		return s.folderID, nil
	}

	query := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, s.folderName)
	found, err := s.service.
		Files.List().
		Q(query).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve files: %w", err)
	}

	switch len(found.Files) {
	case 0:
		log.Printf("backups folder [%s] not found, creating ...", s.folderName)
		created, err := s.service.
			Files.Create(&drive.File{
				Name:     s.folderName,
				MimeType: folderMimeType,
			}).
			Fields("id").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("create backups folder: %w", err)
		}
		if err := s.share(ctx, created.Id); err != nil {
			return "", fmt.Errorf("backups folder: %w", err)
		}
		s.folderID = created.Id
	case 1:
		s.folderID = found.Files[0].Id
	default:
		log.Printf("attention: found %d backups folders, will take the first one: %s", len(found.Files), found.Files[0].Id)
		s.folderID = found.Files[0].Id
	}

	return s.folderID, nil
}

func (s *GoogleDriveBackupService) share(ctx context.Context, fileID string) error {
	if s.shareEmail == "" {
		return nil
	}

	permission, err := s.service.Permissions.
		Create(fileID, &drive.Permission{
			EmailAddress: s.shareEmail,
			Type:         "user",
			Role:         "reader",
		}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("create reader permission: %w", err)
	}

	log.Debugf("permission %s created for %s", permission.Id, fileID)
	return nil
}

// ListBackups returns the backup files, newest first.
func (s *GoogleDriveBackupService) ListBackups(ctx context.Context) ([]*drive.File, error) {
	folderID, err := s.ensureFolder(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", folderID, folderMimeType)
	files, err := s.service.
		Files.List().
		Q(query).
		OrderBy("createdTime desc").
		Fields("files(id, name, createdTime, size)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return files.Files, nil
}
