package filestorage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"bbs-backend/lib/apperrors"
)

type fakeStore struct {
	objects map[string]string
	opts    minio.PutObjectOptions
	putErr  error
}

func (f *fakeStore) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if _, ok := f.objects[bucketName+"/"+objectName]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	}
	return minio.ObjectInfo{Key: objectName}, nil
}

func (f *fakeStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucketName+"/"+objectName] = string(data)
	f.opts = opts
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeStore) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	return url.Parse("https://files.local/" + bucketName + "/" + objectName + "?ttl=" + expires.String())
}

func newTestHandler(store *fakeStore) Provider {
	instance := NewInstance(store, "bbs", "uploads", "https://bbs.example.com/", time.Hour).(impl)
	instance.newID = func() string { return "0001" }
	return instance
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run(`default folder`, func(t *testing.T) {
		store := &fakeStore{objects: map[string]string{}}
		file, err := newTestHandler(store).Upload(ctx, UploadRequest{
			FileName: "photo.jpg",
			Size:     3,
			Reader:   strings.NewReader("abc"),
		})
		require.Nil(t, err)
		require.Equal(t, "uploads/0001-photo.jpg", file.ID)
		require.Equal(t, "photo.jpg", file.Name)
		require.Equal(t, "https://bbs.example.com/api/files/uploads/0001-photo.jpg", file.WebViewLink)
		require.Equal(t, "abc", store.objects["bbs/uploads/0001-photo.jpg"])
		require.Equal(t, "application/octet-stream", store.opts.ContentType)
	})

	t.Run(`folder and content type`, func(t *testing.T) {
		store := &fakeStore{objects: map[string]string{}}
		file, err := newTestHandler(store).Upload(ctx, UploadRequest{
			FileName:    `C:\photos\site.png`,
			FolderID:    "/site-a/",
			ContentType: "image/png",
			Reader:      strings.NewReader("png"),
		})
		require.Nil(t, err)
		require.Equal(t, "site-a/0001-site.png", file.ID)
		require.Equal(t, "image/png", store.opts.ContentType)
	})

	t.Run(`storage failure`, func(t *testing.T) {
		store := &fakeStore{objects: map[string]string{}, putErr: errors.New("connection refused")}
		_, err := newTestHandler(store).Upload(ctx, UploadRequest{FileName: "a", Reader: strings.NewReader("x")})
		require.True(t, apperrors.Is(err, apperrors.KindUpstream))
	})

	t.Run(`missing file`, func(t *testing.T) {
		_, err := newTestHandler(&fakeStore{}).Upload(ctx, UploadRequest{FileName: "a"})
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}

func TestLink(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{objects: map[string]string{}}
	handler := newTestHandler(store)
	file, err := handler.Upload(ctx, UploadRequest{FileName: "site plan.pdf", Reader: strings.NewReader("pdf")})
	require.Nil(t, err)

	t.Run(`stored link is stable and escaped`, func(t *testing.T) {
		require.Equal(t, "https://bbs.example.com/api/files/uploads/0001-site%20plan.pdf", file.WebViewLink)
		require.NotContains(t, file.WebViewLink, "ttl=")
	})

	t.Run(`stored link resolves to a fresh presigned url`, func(t *testing.T) {
		link, err := url.Parse(file.WebViewLink)
		require.Nil(t, err)
		objectName := strings.TrimPrefix(link.Path, FilesRoute)
		presigned, err := handler.Link(ctx, objectName)
		require.Nil(t, err)
		require.Equal(t, "https://files.local/bbs/uploads/0001-site%20plan.pdf?ttl=1h0m0s", presigned)
	})

	t.Run(`unknown object`, func(t *testing.T) {
		_, err := handler.Link(ctx, "uploads/missing.pdf")
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run(`invalid object name`, func(t *testing.T) {
		_, err := handler.Link(ctx, "uploads/../secret")
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
		_, err = handler.Link(ctx, " ")
		require.True(t, apperrors.Is(err, apperrors.KindValidation))
	})
}

func TestCleanFileName(t *testing.T) {
	require.Equal(t, "a.txt", CleanFileName("../../a.txt"))
	require.Equal(t, "file", CleanFileName(" "))
	require.Equal(t, "file", CleanFileName("/"))
}
