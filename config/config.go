package config

import (
	"time"

	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr     string `default:"" env:"APP_HOST"`
		Port           int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMB    int    `default:"50" env:"APP_BODY_LIMIT_MB"`
		SwaggerEnabled *bool  `default:"false" env:"APP_SWAGGER_ENABLED"`
		ErrNotifyURL   string `default:"" env:"APP_ERR_NOTIFY_URL"`
		PublicURL      string `default:"" env:"APP_PUBLIC_URL"` // prefix of stored file links
		LogLevel       string `default:"info" env:"APP_LOG_LEVEL"`
	}
	Sheets struct {
		Backend             string `default:"google" env:"SHEETS_BACKEND"` // google/xlsx
		ServiceAccountEmail string `default:"" env:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
		PrivateKey          string `default:"" env:"GOOGLE_PRIVATE_KEY"`
		SpreadsheetID       string `default:"" env:"GOOGLE_SPREADSHEET_ID"`
		XlsxPath            string `default:"bbs.xlsx" env:"XLSX_PATH"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"bbs-attachments" env:"S3_BUCKET_NAME"`
		DefaultFolderID string `default:"uploads" env:"UPLOAD_DEFAULT_FOLDER_ID"`
		LinkTTLHours    int    `default:"168" env:"UPLOAD_LINK_TTL_HOURS"`
	}
	Cache struct {
		RedisURL           string `default:"" env:"REDIS_URL"`
		EmployeeFreshSec   int    `default:"300" env:"EMPLOYEE_CACHE_FRESH_SEC"`
		EmployeeRetainSec  int    `default:"600" env:"EMPLOYEE_CACHE_RETAIN_SEC"`
		EmployeeRefreshSec int    `default:"600" env:"EMPLOYEE_CACHE_REFRESH_SEC"`
	}
	Approval struct {
		DefaultApprover string `default:"Admin" env:"APPROVAL_DEFAULT_APPROVER"`
		LockWaitSec     int    `default:"10" env:"APPROVAL_LOCK_WAIT_SEC"`
	}
}

func seconds(v int) time.Duration {
	return time.Duration(v) * time.Second
}

func (c *Configuration) EmployeeCacheFresh() time.Duration {
	return seconds(c.Cache.EmployeeFreshSec)
}

func (c *Configuration) EmployeeCacheRetain() time.Duration {
	return seconds(c.Cache.EmployeeRetainSec)
}

func (c *Configuration) EmployeeCacheRefresh() time.Duration {
	return seconds(c.Cache.EmployeeRefreshSec)
}

func (c *Configuration) ApprovalLockWait() time.Duration {
	return seconds(c.Approval.LockWaitSec)
}

func (c *Configuration) UploadLinkTTL() time.Duration {
	return time.Duration(c.S3.LinkTTLHours) * time.Hour
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
