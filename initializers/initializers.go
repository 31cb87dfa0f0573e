package initializers

import (
	"context"

	"bbs-backend/config"
	"bbs-backend/fiberlog"
	approvalhandler "bbs-backend/lib/approval"
	employeehandler "bbs-backend/lib/employee"
	employeerefreshworker "bbs-backend/lib/employee/refresh-worker"
	xlsexport "bbs-backend/lib/export/xls"
	filestorage "bbs-backend/lib/file-storage"
	observationhandler "bbs-backend/lib/observation"
	taxonomyhandler "bbs-backend/lib/taxonomy"
	s3client "bbs-backend/s3"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger(config.Conf.App.LogLevel)
	InitS3(ctx)
	gateway := InitSheets(ctx)
	store := InitCacheStore(ctx)

	approvalhandler.NewHandler(gateway, config.Conf.Approval.DefaultApprover, config.Conf.ApprovalLockWait())
	observationhandler.NewHandler(gateway)
	employeehandler.NewHandler(gateway, store, employeeCachePolicy())
	taxonomyhandler.NewHandler(gateway)
	filestorage.NewHandler(s3client.Client, config.Conf.S3.BucketName, config.Conf.S3.DefaultFolderID,
		config.Conf.App.PublicURL, config.Conf.UploadLinkTTL())
	xlsexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// keeps the employee cache warm for the submission form
	employeerefreshworker.StartWorker(ctx, employeehandler.Instance, config.Conf.EmployeeCacheRefresh())
}
