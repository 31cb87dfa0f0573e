package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"bbs-backend/config"
	s3client "bbs-backend/s3"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewClient(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
		config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		panic(err.Error())
	}
	if err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).WithField("bucket", config.Conf.S3.BucketName).Error("S3 bucket check failed, uploads will fail until storage is reachable")
	}
	s3client.Client = minioClient
	log.Info("S3 client initialized")
}
