package employeerefreshworker

import (
	"context"
	"time"

	employeehandler "bbs-backend/lib/employee"
	baseworker "bbs-backend/lib/utils/base-worker"
	"bbs-backend/lib/utils/helpers"
)

func StartWorker(ctx context.Context, employees employeehandler.Provider, interval time.Duration) {
	i := &impl{
		BaseImpl:  *baseworker.NewInstance("EmployeeRefreshWorker", interval, interval),
		employees: employees,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	employees employeehandler.Provider
}

func (i impl) handle(ctx context.Context) error {
	if helpers.IsContextDone(ctx) {
		return nil
	}
	return i.employees.Refresh(ctx)
}
