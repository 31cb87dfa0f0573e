package filestorage

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	log "github.com/sirupsen/logrus"

	"bbs-backend/lib/apperrors"
	initchecker "bbs-backend/lib/utils/init-checker"
	apimodels "bbs-backend/models/api"
)

type Provider interface {
	Upload(ctx context.Context, request UploadRequest) (apimodels.UploadedFile, error)
	// Link presigns a short lived download URL for a stored object.
	Link(ctx context.Context, objectName string) (string, error)
}

// FilesRoute serves stored objects. webViewLink points here so stored links never expire.
const FilesRoute = "/api/files/"

var Instance Provider

// ObjectStore is the part of *minio.Client used for uploads.
type ObjectStore interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type UploadRequest struct {
	FileName    string
	FolderID    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func NewHandler(store ObjectStore, bucketName, defaultFolderID, publicURL string, linkTTL time.Duration) {
	Instance = NewInstance(store, bucketName, defaultFolderID, publicURL, linkTTL)
}

func NewInstance(store ObjectStore, bucketName, defaultFolderID, publicURL string, linkTTL time.Duration) Provider {
	instance := impl{
		store:           store,
		bucketName:      bucketName,
		defaultFolderID: defaultFolderID,
		publicURL:       strings.TrimRight(strings.TrimSpace(publicURL), "/"),
		linkTTL:         linkTTL,
		newID:           uuid.NewString,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	return instance
}

type impl struct {
	store           ObjectStore
	bucketName      string
	defaultFolderID string
	publicURL       string
	linkTTL         time.Duration
	newID           func() string
}

func (i impl) Upload(ctx context.Context, request UploadRequest) (apimodels.UploadedFile, error) {
	if request.Reader == nil {
		return apimodels.UploadedFile{}, apperrors.NewValidation("file is required")
	}
	name := CleanFileName(request.FileName)
	folder := strings.Trim(strings.TrimSpace(request.FolderID), "/")
	if folder == "" {
		folder = i.defaultFolderID
	}
	objectName := path.Join(folder, i.newID()+"-"+name)
	contentType := request.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	logger := log.WithField("bucket", i.bucketName).WithField("object", objectName)

	_, err := i.store.PutObject(ctx, i.bucketName, objectName, request.Reader, request.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.WithError(err).Error("file upload failed")
		return apimodels.UploadedFile{}, apperrors.WrapUpstream(err, "failed to upload file")
	}
	logger.WithField("size", request.Size).Info("file uploaded")
	return apimodels.UploadedFile{
		ID:          objectName,
		Name:        name,
		WebViewLink: i.FileURL(objectName),
	}, nil
}

// FileURL is the stable link of objectName, relative when no public URL is configured.
func (i impl) FileURL(objectName string) string {
	link := url.URL{Path: FilesRoute + strings.TrimLeft(objectName, "/")}
	return i.publicURL + link.EscapedPath()
}

func (i impl) Link(ctx context.Context, objectName string) (string, error) {
	objectName = strings.Trim(strings.TrimSpace(objectName), "/")
	if objectName == "" || objectName != path.Clean(objectName) {
		return "", apperrors.NewValidation("invalid file id")
	}
	if _, err := i.store.StatObject(ctx, i.bucketName, objectName, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", apperrors.NewNotFound("file not found")
		}
		return "", apperrors.WrapUpstream(err, "failed to read file")
	}
	link, err := i.store.PresignedGetObject(ctx, i.bucketName, objectName, i.linkTTL, url.Values{})
	if err != nil {
		return "", apperrors.WrapUpstream(err, "failed to create file link")
	}
	return link.String(), nil
}

// CleanFileName keeps the last path element of name.
func CleanFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = path.Base(name)
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
