package storage

import (
	"context"

	"github.com/GriffinCanCode/persistfs/internal/async"
)

// Usage reports the bytes used and the current allowance. It does not wait
// for the handle.
func (s *Service) Usage(ctx context.Context) *async.Promise[UsageInfo] {
	o := begin[UsageInfo](ctx, s, "Usage", "")
	s.provider.QueryUsageAndQuota(func(used, quota int64) {
		o.resolve(UsageInfo{Used: used, Quota: quota})
	}, func(err error) {
		o.fail(KindUsageQueryFailed, err)
	})
	return o.promise()
}

// RequestQuotaIncrease asks the provider for targetMB mebibytes and resolves
// with the bytes granted. It does not wait for the handle.
func (s *Service) RequestQuotaIncrease(ctx context.Context, targetMB float64) *async.Promise[int64] {
	o := begin[int64](ctx, s, "RequestQuotaIncrease", "")
	s.provider.RequestQuota(quotaBytes(targetMB), o.resolve, func(err error) {
		o.fail(KindQuotaIncreaseFailed, err)
	})
	return o.promise()
}

// RequestQuota is RequestQuotaIncrease.
func (s *Service) RequestQuota(ctx context.Context, targetMB float64) *async.Promise[int64] {
	return s.RequestQuotaIncrease(ctx, targetMB)
}
